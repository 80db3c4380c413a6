package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loanapi/internal/model"
	"loanapi/internal/service"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Create(ctx context.Context, in service.CreateLoanInput) (*model.Loan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) Get(ctx context.Context, id int64) (*model.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) List(ctx context.Context) ([]model.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Loan), args.Error(1)
}

func (m *MockLoanService) Update(ctx context.Context, id int64, in service.UpdateLoanInput) (*model.Loan, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

func (m *MockLoanService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanService) Summary(ctx context.Context) ([]model.LoanSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanSummary), args.Error(1)
}
