package repository

import (
	"context"

	"loanapi/internal/model"
)

// LoanCreate carries the caller-supplied columns for an insert. The id,
// status and both timestamps are assigned by the database, never by callers.
type LoanCreate struct {
	ApplicantName   string
	RequestedAmount string
}

// LoanUpdate carries the replacement columns for an update. An empty Status
// keeps the stored status; updated_at is refreshed by the database.
type LoanUpdate struct {
	ApplicantName   string
	RequestedAmount string
	Status          model.LoanStatus
}

// LoanRepository defines data access for loan applications using SQL queries only.
// No business logic here — strictly persistence operations.
type LoanRepository interface {
	// Create inserts a new loan row with status PENDING and both timestamps
	// stamped identically. Returns the stored record.
	Create(ctx context.Context, in LoanCreate) (*model.Loan, error)

	// FindByID returns a loan by its ID, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id int64) (*model.Loan, error)

	// List returns all loans ordered by created_at ascending, id as the
	// stable tie-break.
	List(ctx context.Context) ([]model.Loan, error)

	// Update replaces name/amount/status for one row and refreshes
	// updated_at. Returns sql.ErrNoRows if the id is absent.
	Update(ctx context.Context, id int64, in LoanUpdate) (*model.Loan, error)

	// Delete removes a loan by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error

	// SummaryByStatus returns one aggregation row per status present in the
	// table: a row count and a decimal-preserving amount sum.
	SummaryByStatus(ctx context.Context) ([]model.LoanSummary, error)
}
