package postgres

import (
	"context"
	"database/sql"

	"loanapi/internal/model"
	"loanapi/internal/repository"
)

// LoanPostgres is a PostgreSQL implementation of repository.LoanRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// requested_amount is selected ::text so numeric values keep their stored
// scale (trailing zeros included) instead of passing through a float.
type LoanPostgres struct {
	db *sql.DB
}

// NewLoanPostgres creates a new LoanPostgres repository.
func NewLoanPostgres(db *sql.DB) *LoanPostgres {
	return &LoanPostgres{db: db}
}

var _ repository.LoanRepository = (*LoanPostgres)(nil)

const loanColumns = `id, application_name, requested_amount::text, status, created_at, updated_at`

func scanLoan(row interface{ Scan(dest ...any) error }) (*model.Loan, error) {
	var (
		l      model.Loan
		amount sql.NullString
		status string
	)
	if err := row.Scan(
		&l.ID,
		&l.ApplicantName,
		&amount,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.RequestedAmount = amount.String
	l.Status = model.LoanStatus(status)
	return &l, nil
}

// Create inserts a new loan row and returns the stored record. Status and
// both timestamps come from the database so createdAt equals updatedAt.
func (r *LoanPostgres) Create(ctx context.Context, in repository.LoanCreate) (*model.Loan, error) {
	const q = `
		INSERT INTO loans (application_name, requested_amount, status, created_at, updated_at)
		VALUES ($1, $2, 'PENDING', now(), now())
		RETURNING ` + loanColumns
	return scanLoan(r.db.QueryRowContext(ctx, q, in.ApplicantName, in.RequestedAmount))
}

// FindByID fetches a single loan by its ID.
func (r *LoanPostgres) FindByID(ctx context.Context, id int64) (*model.Loan, error) {
	const q = `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1
	`
	return scanLoan(r.db.QueryRowContext(ctx, q, id))
}

// List returns all loans in ascending creation order.
func (r *LoanPostgres) List(ctx context.Context) ([]model.Loan, error) {
	const q = `
		SELECT ` + loanColumns + `
		FROM loans
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]model.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

// Update fully replaces name/amount/status of one row. An empty status keeps
// the stored value; updated_at is refreshed either way.
func (r *LoanPostgres) Update(ctx context.Context, id int64, in repository.LoanUpdate) (*model.Loan, error) {
	const q = `
		UPDATE loans
		SET application_name = $2,
		    requested_amount = $3,
		    status = COALESCE(NULLIF($4, '')::loan_status, status),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + loanColumns
	return scanLoan(r.db.QueryRowContext(ctx, q, id, in.ApplicantName, in.RequestedAmount, string(in.Status)))
}

// Delete removes a loan by ID. It does not return an error if the row does not exist.
func (r *LoanPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM loans WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected; delete is idempotent by contract.
	_, _ = res.RowsAffected()
	return nil
}

// SummaryByStatus groups the table by status, counting rows and summing
// requested_amount. The sum is cast to text in SQL to stay exact.
func (r *LoanPostgres) SummaryByStatus(ctx context.Context) ([]model.LoanSummary, error) {
	const q = `
		SELECT status, COUNT(id), SUM(requested_amount)::text
		FROM loans
		GROUP BY status
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make([]model.LoanSummary, 0)
	for rows.Next() {
		var (
			s     model.LoanSummary
			state string
			total sql.NullString
		)
		if err := rows.Scan(&state, &s.TotalApplications, &total); err != nil {
			return nil, err
		}
		s.Status = model.LoanStatus(state)
		s.TotalRequestedAmount = total.String
		summary = append(summary, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}
