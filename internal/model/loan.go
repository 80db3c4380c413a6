package model

import "time"

// LoanStatus enumerates the states a loan application can be in.
// There is no enforced transition graph; any status may move to any other.
type LoanStatus string

const (
	StatusPending  LoanStatus = "PENDING"
	StatusApproved LoanStatus = "APPROVED"
	StatusRejected LoanStatus = "REJECTED"
)

// Valid reports whether s is one of the enumerated statuses.
func (s LoanStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Loan represents a loan application record.
// This is a pure domain model with no database-specific dependencies or tags.
// RequestedAmount is carried as a decimal string to preserve arbitrary
// precision and trailing zeros exactly as stored.
type Loan struct {
	ID              int64      `json:"id"`
	ApplicantName   string     `json:"applicantName"`
	RequestedAmount string     `json:"requestedAmount"`
	Status          LoanStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LoanSummary is one aggregation row of the status summary: the number of
// applications and the decimal-preserving amount total for a single status.
// It is derived per request, never stored.
type LoanSummary struct {
	Status               LoanStatus `json:"status"`
	TotalApplications    int64      `json:"totalApplications"`
	TotalRequestedAmount string     `json:"totalRequestedAmount"`
}
