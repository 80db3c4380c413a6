package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loanapi/internal/service"
	"loanapi/internal/validation"
)

// Client-facing messages. Wording is part of the API contract: the UI keys
// off the exact strings, so they are fixed here rather than derived from
// internal error text.
const (
	msgValidation     = "Request validation error"
	msgNotFound       = "Unable to find the specified loan ID. Please check the ID and try again."
	msgNegativeAmount = "Requested amount must be a positive number."
	msgInternal       = "Failed to process request."
	msgDeleted        = "Successfully deleted loan details."
	msgWelcome        = "Welcome to Loan Application API"
	msgRunning        = "API is running."
	msgUnavailable    = "Service unavailable."
)

// dataEnvelope wraps every successful payload-carrying response.
type dataEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// messageEnvelope wraps responses that carry a human-readable message only
// (delete success, welcome, business-rule and not-found failures).
type messageEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// validationEnvelope is the 400 body for shape-validation failures: a fixed
// message plus one entry per violated field.
type validationEnvelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors"`
}

func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dataEnvelope{Status: "success", Data: data})
}

func writeSuccessMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(messageEnvelope{Status: "success", Message: message})
}

func writeErrorMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(messageEnvelope{Status: "error", Message: message})
}

func writeValidationError(c *fiber.Ctx, errs []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(validationEnvelope{
		Status:  "error",
		Message: msgValidation,
		Errors:  errs,
	})
}

// writeServiceError is the single terminal translation point for operation
// failures: error kind → status code + envelope. Unclassified errors never
// leak internal detail to the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNegativeAmount):
		return writeErrorMessage(c, fiber.StatusBadRequest, msgNegativeAmount)
	case errors.Is(err, service.ErrNotFound):
		return writeErrorMessage(c, fiber.StatusNotFound, msgNotFound)
	default:
		return writeErrorMessage(c, fiber.StatusInternalServerError, msgInternal)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for failures escaping the handlers (unknown routes, panics
// surfaced as errors, bad methods).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusNotFound:
			return writeErrorMessage(c, status, "Not Found")
		case fiber.StatusMethodNotAllowed:
			return writeErrorMessage(c, status, "Method Not Allowed")
		default:
			return writeErrorMessage(c, fiber.StatusInternalServerError, msgInternal)
		}
	}
}
