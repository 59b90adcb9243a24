package domain

import "time"

// CheckResult is one probe outcome. Exactly one of StatusCode / Error is
// set: a transport failure has no usable status code.
type CheckResult struct {
	PageID     PageID    `json:"page_id"`
	CheckedAt  time.Time `json:"checked_at"`
	StatusCode *int      `json:"status_code"` // pointer to allow nil
	Error      *string   `json:"error"`       // pointer to allow nil
}

// Failing reports whether this result should trigger an alert.
func (r CheckResult) Failing() bool {
	return r.StatusCode == nil || *r.StatusCode >= 400
}
