package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"loanapi/internal/model"
	"loanapi/internal/repository"
)

var (
	// ErrNotFound signals a read or update against an id that is not in the store.
	ErrNotFound = errors.New("loan not found")
	// ErrNegativeAmount is the business-rule rejection for amounts below zero.
	// It is deliberately distinct from the shape-validation parse failure so
	// clients can render the precise cause.
	ErrNegativeAmount = errors.New("requested amount must be a positive number")
)

// CreateLoanInput carries a shape-validated create payload into the service.
type CreateLoanInput struct {
	ApplicantName   string
	RequestedAmount string
}

// UpdateLoanInput carries a shape-validated update payload. An empty Status
// leaves the stored status unchanged.
type UpdateLoanInput struct {
	ApplicantName   string
	RequestedAmount string
	Status          model.LoanStatus
}

// LoanService defines the use cases for handling loan applications.
type LoanService interface {
	// Create persists a new application. Status is forced to PENDING and
	// timestamps are stamped by persistence.
	Create(ctx context.Context, in CreateLoanInput) (*model.Loan, error)

	// Get returns a single loan by its ID, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Loan, error)

	// List returns all loans ordered by creation time ascending.
	List(ctx context.Context) ([]model.Loan, error)

	// Update fully replaces name/amount/status of one loan, or returns ErrNotFound.
	Update(ctx context.Context, id int64, in UpdateLoanInput) (*model.Loan, error)

	// Delete removes a loan by ID. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id int64) error

	// Summary returns one aggregation row per status present in the store.
	Summary(ctx context.Context) ([]model.LoanSummary, error)
}

// loanService is a concrete implementation of LoanService.
type loanService struct {
	repo repository.LoanRepository
}

// NewLoanService constructs a new LoanService.
func NewLoanService(repo repository.LoanRepository) LoanService {
	return &loanService{repo: repo}
}

// checkAmount enforces the non-negativity business rule. Shape validation has
// already guaranteed the string parses; an unparseable value reaching this
// point is a programming error upstream and surfaces as a generic failure.
func checkAmount(raw string) error {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parse requested amount: %w", err)
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (s *loanService) Create(ctx context.Context, in CreateLoanInput) (*model.Loan, error) {
	if err := checkAmount(in.RequestedAmount); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, repository.LoanCreate{
		ApplicantName:   in.ApplicantName,
		RequestedAmount: in.RequestedAmount,
	})
}

func (s *loanService) Get(ctx context.Context, id int64) (*model.Loan, error) {
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

func (s *loanService) List(ctx context.Context) ([]model.Loan, error) {
	return s.repo.List(ctx)
}

func (s *loanService) Update(ctx context.Context, id int64, in UpdateLoanInput) (*model.Loan, error) {
	if err := checkAmount(in.RequestedAmount); err != nil {
		return nil, err
	}
	loan, err := s.repo.Update(ctx, id, repository.LoanUpdate{
		ApplicantName:   in.ApplicantName,
		RequestedAmount: in.RequestedAmount,
		Status:          in.Status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return loan, nil
}

// Delete is idempotent: the repository ignores missing rows, so deleting an
// unknown id succeeds.
func (s *loanService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *loanService) Summary(ctx context.Context) ([]model.LoanSummary, error) {
	return s.repo.SummaryByStatus(ctx)
}
