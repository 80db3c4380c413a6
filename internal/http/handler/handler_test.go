package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loanapi/internal/model"
	"loanapi/internal/service"
	serviceMocks "loanapi/internal/service/mocks"
)

type testEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Path    string `json:"path"`
	} `json:"errors"`
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, resp *http.Response) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestCreateLoan(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Post("/api/loans", CreateLoan(mockSvc))

	t.Run("created with pending status", func(t *testing.T) {
		now := time.Date(2025, 2, 16, 16, 41, 31, 0, time.UTC)
		stored := &model.Loan{
			ID:              112,
			ApplicantName:   "John Doe",
			RequestedAmount: "1000.00",
			Status:          model.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		mockSvc.On("Create", mock.Anything, service.CreateLoanInput{
			ApplicantName:   "John Doe",
			RequestedAmount: "1000.00",
		}).Return(stored, nil).Once()

		req := jsonRequest(http.MethodPost, "/api/loans",
			map[string]string{"applicantName": "John Doe", "requestedAmount": "1000.00"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "success", env.Status)

		var loan model.Loan
		require.NoError(t, json.Unmarshal(env.Data, &loan))
		assert.Equal(t, int64(112), loan.ID)
		assert.Equal(t, model.StatusPending, loan.Status)
		assert.Equal(t, "1000.00", loan.RequestedAmount)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty body fails validation", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/loans", map[string]string{})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "Request validation error", env.Message)
		assert.NotEmpty(t, env.Errors)
	})

	t.Run("short applicant name", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/loans",
			map[string]string{"applicantName": "", "requestedAmount": "1"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "String must contain at least 3 character(s)", env.Errors[0].Message)
		assert.Equal(t, "applicantName", env.Errors[0].Path)
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/loans",
			map[string]string{"applicantName": "John Doe", "requestedAmount": "not a number"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Requested amount must be a valid number.", env.Errors[0].Message)
	})

	t.Run("negative amount hits business rule", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, service.CreateLoanInput{
			ApplicantName:   "John Doe",
			RequestedAmount: "-100.00",
		}).Return(nil, service.ErrNegativeAmount).Once()

		req := jsonRequest(http.MethodPost, "/api/loans",
			map[string]string{"applicantName": "John Doe", "requestedAmount": "-100.00"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Requested amount must be a positive number.", env.Message)
		assert.Empty(t, env.Errors)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		req := jsonRequest(http.MethodPost, "/api/loans",
			map[string]string{"applicantName": "John Doe", "requestedAmount": "1000.00"})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Failed to process request.", env.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetLoan(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Get("/api/loans/:id", GetLoan(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).
			Return(&model.Loan{ID: 7, ApplicantName: "Jane Doe"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/7", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var loan model.Loan
		require.NoError(t, json.Unmarshal(env.Data, &loan))
		assert.Equal(t, int64(7), loan.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Loan ID must be a valid number", env.Errors[0].Message)
		assert.Equal(t, "id", env.Errors[0].Path)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(404)).
			Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/404", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Unable to find the specified loan ID. Please check the ID and try again.", env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).
			Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/7", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListLoans(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Get("/api/loans", ListLoans(mockSvc))

	t.Run("success preserves order", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Loan{
			{ID: 3, ApplicantName: "First"},
			{ID: 1, ApplicantName: "Second"},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var loans []model.Loan
		require.NoError(t, json.Unmarshal(env.Data, &loans))
		assert.Len(t, loans, 2)
		assert.Equal(t, "First", loans[0].ApplicantName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateLoan(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Put("/api/loans/:id", UpdateLoan(mockSvc))

	t.Run("success with status change", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(112), service.UpdateLoanInput{
			ApplicantName:   "John Doe",
			RequestedAmount: "900.50",
			Status:          model.StatusApproved,
		}).Return(&model.Loan{
			ID:              112,
			ApplicantName:   "John Doe",
			RequestedAmount: "900.50",
			Status:          model.StatusApproved,
		}, nil).Once()

		req := jsonRequest(http.MethodPut, "/api/loans/112", map[string]string{
			"applicantName":   "John Doe",
			"requestedAmount": "900.50",
			"status":          "APPROVED",
		})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var loan model.Loan
		require.NoError(t, json.Unmarshal(env.Data, &loan))
		assert.Equal(t, model.StatusApproved, loan.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id checked before body", func(t *testing.T) {
		req := jsonRequest(http.MethodPut, "/api/loans/abc", map[string]string{})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Loan ID must be a valid number", env.Errors[0].Message)
	})

	t.Run("invalid status enum", func(t *testing.T) {
		req := jsonRequest(http.MethodPut, "/api/loans/112", map[string]string{
			"applicantName":   "John Doe",
			"requestedAmount": "900.50",
			"status":          "CANCELLED",
		})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "invalid_enum_value", env.Errors[0].Code)
		assert.Equal(t, "status", env.Errors[0].Path)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(404), mock.Anything).
			Return(nil, service.ErrNotFound).Once()

		req := jsonRequest(http.MethodPut, "/api/loans/404", map[string]string{
			"applicantName":   "John Doe",
			"requestedAmount": "1.00",
		})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "Unable to find the specified loan ID. Please check the ID and try again.", env.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteLoan(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Delete("/api/loans/:id", DeleteLoan(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/loans/3", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "Successfully deleted loan details.", env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("absent id is still success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(404)).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/loans/404", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/loans/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(3)).
			Return(errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/loans/3", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestLoanSummary(t *testing.T) {
	mockSvc := new(serviceMocks.MockLoanService)
	app := fiber.New()
	app.Get("/api/loans/summary", LoanSummary(mockSvc))

	t.Run("grouped rows", func(t *testing.T) {
		mockSvc.On("Summary", mock.Anything).Return([]model.LoanSummary{
			{Status: model.StatusPending, TotalApplications: 2, TotalRequestedAmount: "1500.00"},
			{Status: model.StatusApproved, TotalApplications: 1, TotalRequestedAmount: "900.50"},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/summary", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var summary []model.LoanSummary
		require.NoError(t, json.Unmarshal(env.Data, &summary))
		assert.Len(t, summary, 2)
		assert.Equal(t, int64(2), summary[0].TotalApplications)
		assert.Equal(t, "1500.00", summary[0].TotalRequestedAmount)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Summary", mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/summary", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestWelcome(t *testing.T) {
	app := fiber.New()
	app.Post("/api", Welcome())

	resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Welcome to Loan Application API", env.Message)
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/health-check", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health-check", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "API is running.", env.Message)
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockLoanService)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	RegisterRoutes(app, db, mockSvc)

	t.Run("summary routed before id parameter", func(t *testing.T) {
		mockSvc.On("Summary", mock.Anything).Return([]model.LoanSummary{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/loans/summary", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health-check", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
