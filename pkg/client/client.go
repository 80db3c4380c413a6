// Package client is a small Go client for the loan application API. It keeps
// a locally held copy of the loan list and patches it optimistically after
// each successful mutation (append on create, replace-by-id on update,
// filter-out on delete) instead of re-fetching, the same trade the admin UI
// makes: consistency-with-server for responsiveness.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// LoanForm is the mutation payload for create and update. Status is ignored
// on create (the server forces PENDING) and optional on update.
type LoanForm struct {
	ApplicantName   string           `json:"applicantName"`
	RequestedAmount string           `json:"requestedAmount"`
	Status          LoanStatus `json:"status,omitempty"`
}

// APIError is a decoded error envelope from the server.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one API server. The cached loan list is safe for
// concurrent reads; callers issue one mutation at a time per user action.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	loans []Loan
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the API at baseURL (scheme://host[:port], no
// trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Data    json.RawMessage         `json:"data"`
	Errors  []FieldError `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Errors:     env.Errors,
		}
	}
	return &env, nil
}

// Loans fetches the full list from the server and replaces the cached copy.
func (c *Client) Loans(ctx context.Context) ([]Loan, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/loans", nil)
	if err != nil {
		return nil, err
	}
	var loans []Loan
	if err := json.Unmarshal(env.Data, &loans); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}

	c.mu.Lock()
	c.loans = loans
	c.mu.Unlock()

	return c.snapshot(), nil
}

// Cached returns the locally patched view of the loan list without a server
// round trip.
func (c *Client) Cached() []Loan {
	return c.snapshot()
}

func (c *Client) snapshot() []Loan {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Loan, len(c.loans))
	copy(out, c.loans)
	return out
}

// Create submits a new application and appends the stored record to the cache.
func (c *Client) Create(ctx context.Context, form LoanForm) (*Loan, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/loans", form)
	if err != nil {
		return nil, err
	}
	var loan Loan
	if err := json.Unmarshal(env.Data, &loan); err != nil {
		return nil, fmt.Errorf("decode loan: %w", err)
	}

	c.mu.Lock()
	c.loans = append(c.loans, loan)
	c.mu.Unlock()

	return &loan, nil
}

// Update replaces one application and patches it into the cache by id.
func (c *Client) Update(ctx context.Context, id int64, form LoanForm) (*Loan, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/loans/"+strconv.FormatInt(id, 10), form)
	if err != nil {
		return nil, err
	}
	var loan Loan
	if err := json.Unmarshal(env.Data, &loan); err != nil {
		return nil, fmt.Errorf("decode loan: %w", err)
	}

	c.mu.Lock()
	for i := range c.loans {
		if c.loans[i].ID == loan.ID {
			c.loans[i] = loan
			break
		}
	}
	c.mu.Unlock()

	return &loan, nil
}

// Delete removes one application and filters it out of the cache.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/loans/"+strconv.FormatInt(id, 10), nil); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.loans[:0]
	for _, l := range c.loans {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.loans = kept
	c.mu.Unlock()

	return nil
}

// Summary fetches the per-status aggregation. It is never cached.
func (c *Client) Summary(ctx context.Context) ([]LoanSummary, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/loans/summary", nil)
	if err != nil {
		return nil, err
	}
	var summary []LoanSummary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}
