package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"loanapi/internal/model"
)

// FieldError is one field-level violation of a request payload.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// Issue codes carried in FieldError.Code. Clients key UI behavior off these,
// so they are stable strings rather than validator tag names.
const (
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeInvalidType      = "invalid_type"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeCustom           = "custom"
)

// CreateLoanRequest is the payload for creating a loan application.
// RequestedAmount stays a string; the sign is deliberately not restricted
// here — negative amounts pass shape validation and are rejected by the
// service's business rule with a different message.
type CreateLoanRequest struct {
	ApplicantName   string `json:"applicantName" validate:"min=3,max=255"`
	RequestedAmount string `json:"requestedAmount" validate:"min=1,amount"`
}

// UpdateLoanRequest is the payload for updating a loan application.
// Status is optional; when present it must be one of the enumerated values.
type UpdateLoanRequest struct {
	ApplicantName   string           `json:"applicantName" validate:"min=3,max=255"`
	RequestedAmount string           `json:"requestedAmount" validate:"min=1,amount"`
	Status          model.LoanStatus `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report violations against JSON field names so paths match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// amount = parses as a finite decimal number, any sign
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})

	return v
}

// ValidateCreateLoan shape-checks a create payload. It never fails hard on
// malformed input — it reports, returning nil when the payload is valid.
func ValidateCreateLoan(req *CreateLoanRequest) []FieldError {
	return fieldErrors(validate.Struct(req))
}

// ValidateUpdateLoan shape-checks an update payload.
func ValidateUpdateLoan(req *UpdateLoanRequest) []FieldError {
	return fieldErrors(validate.Struct(req))
}

// ParseLoanID validates and parses the id path segment.
func ParseLoanID(raw string) (int64, []FieldError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, []FieldError{{
			Code:    CodeCustom,
			Message: "Loan ID must be a valid number",
			Path:    "id",
		}}
	}
	return id, nil
}

// fieldErrors maps validator violations to the wire-level FieldError list.
func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Code: CodeCustom, Message: err.Error(), Path: ""}}
	}

	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		switch e.Tag() {
		case "min":
			out = append(out, FieldError{
				Code:    CodeTooSmall,
				Message: fmt.Sprintf("String must contain at least %s character(s)", e.Param()),
				Path:    e.Field(),
			})
		case "max":
			out = append(out, FieldError{
				Code:    CodeTooBig,
				Message: fmt.Sprintf("String must contain at most %s character(s)", e.Param()),
				Path:    e.Field(),
			})
		case "amount":
			out = append(out, FieldError{
				Code:    CodeCustom,
				Message: "Requested amount must be a valid number.",
				Path:    e.Field(),
			})
		case "oneof":
			out = append(out, FieldError{
				Code:    CodeInvalidEnumValue,
				Message: fmt.Sprintf("Invalid enum value. Expected 'PENDING' | 'APPROVED' | 'REJECTED', received '%v'", e.Value()),
				Path:    e.Field(),
			})
		case "required":
			out = append(out, FieldError{
				Code:    CodeInvalidType,
				Message: "Required",
				Path:    e.Field(),
			})
		default:
			out = append(out, FieldError{
				Code:    CodeCustom,
				Message: e.Tag() + " validation failed",
				Path:    e.Field(),
			})
		}
	}
	return out
}
