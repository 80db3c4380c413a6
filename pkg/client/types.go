package client

import "time"

// The wire types are mirrored here rather than imported so that programs
// outside this module can use the client. They must track the server's JSON
// shapes exactly.

// LoanStatus enumerates the states a loan application can be in.
type LoanStatus string

const (
	StatusPending  LoanStatus = "PENDING"
	StatusApproved LoanStatus = "APPROVED"
	StatusRejected LoanStatus = "REJECTED"
)

// Loan is one loan application as returned by the server. RequestedAmount is
// a decimal string preserving the stored precision and trailing zeros.
type Loan struct {
	ID              int64      `json:"id"`
	ApplicantName   string     `json:"applicantName"`
	RequestedAmount string     `json:"requestedAmount"`
	Status          LoanStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LoanSummary is one row of the per-status aggregation.
type LoanSummary struct {
	Status               LoanStatus `json:"status"`
	TotalApplications    int64      `json:"totalApplications"`
	TotalRequestedAmount string     `json:"totalRequestedAmount"`
}

// FieldError is one field-level violation reported in a validation error
// envelope.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}
