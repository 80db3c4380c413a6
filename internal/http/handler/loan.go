package handler

import (
	"github.com/gofiber/fiber/v2"

	"loanapi/internal/service"
	"loanapi/internal/validation"
)

// CreateLoan handles POST /api/loans.
//
// @Summary Create a loan application
// @Accept json
// @Produce json
// @Success 201 {object} dataEnvelope
// @Failure 400 {object} validationEnvelope
// @Router /api/loans [post]
func CreateLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.CreateLoanRequest
		if err := c.BodyParser(&req); err != nil {
			return writeValidationError(c, []validation.FieldError{
				{Code: validation.CodeInvalidType, Message: "Invalid request body", Path: ""},
			})
		}
		if errs := validation.ValidateCreateLoan(&req); errs != nil {
			return writeValidationError(c, errs)
		}

		loan, err := svc.Create(c.UserContext(), service.CreateLoanInput{
			ApplicantName:   req.ApplicantName,
			RequestedAmount: req.RequestedAmount,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusCreated, loan)
	}
}

// ListLoans handles GET /api/loans.
//
// @Summary List all loan applications ordered by creation time
// @Produce json
// @Success 200 {object} dataEnvelope
// @Router /api/loans [get]
func ListLoans(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loans, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, loans)
	}
}

// GetLoan handles GET /api/loans/:id.
//
// @Summary Get one loan application
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dataEnvelope
// @Failure 400 {object} validationEnvelope
// @Failure 404 {object} messageEnvelope
// @Router /api/loans/{id} [get]
func GetLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errs := validation.ParseLoanID(c.Params("id"))
		if errs != nil {
			return writeValidationError(c, errs)
		}

		loan, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, loan)
	}
}

// UpdateLoan handles PUT /api/loans/:id. The id is validated before the body,
// matching the route middleware order of the API contract.
//
// @Summary Replace a loan application
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dataEnvelope
// @Failure 400 {object} validationEnvelope
// @Failure 404 {object} messageEnvelope
// @Router /api/loans/{id} [put]
func UpdateLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errs := validation.ParseLoanID(c.Params("id"))
		if errs != nil {
			return writeValidationError(c, errs)
		}

		var req validation.UpdateLoanRequest
		if err := c.BodyParser(&req); err != nil {
			return writeValidationError(c, []validation.FieldError{
				{Code: validation.CodeInvalidType, Message: "Invalid request body", Path: ""},
			})
		}
		if errs := validation.ValidateUpdateLoan(&req); errs != nil {
			return writeValidationError(c, errs)
		}

		loan, err := svc.Update(c.UserContext(), id, service.UpdateLoanInput{
			ApplicantName:   req.ApplicantName,
			RequestedAmount: req.RequestedAmount,
			Status:          req.Status,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, loan)
	}
}

// DeleteLoan handles DELETE /api/loans/:id. Deleting an absent id succeeds.
//
// @Summary Delete a loan application
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} messageEnvelope
// @Failure 400 {object} validationEnvelope
// @Router /api/loans/{id} [delete]
func DeleteLoan(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errs := validation.ParseLoanID(c.Params("id"))
		if errs != nil {
			return writeValidationError(c, errs)
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return writeSuccessMessage(c, msgDeleted)
	}
}

// LoanSummary handles GET /api/loans/summary: one row per status present,
// with application count and decimal-preserving amount total.
//
// @Summary Summarize loan applications per status
// @Produce json
// @Success 200 {object} dataEnvelope
// @Router /api/loans/summary [get]
func LoanSummary(svc service.LoanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, summary)
	}
}
