package probe

import (
	"context"
	"net/http"
	"time"
)

// Outcome is the result of a single reachability probe. Exactly one of
// StatusCode / Err is set.
type Outcome struct {
	StatusCode *int
	Err        string
}

// Prober performs one reachability check for a target URL.
type Prober interface {
	Check(ctx context.Context, target string) Outcome
}

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues a single GET with no retries. Any transport, DNS or
// timeout failure is reported through Err; the response status code is
// captured as-is otherwise (a 500 is a successful probe of a sick page).
func (h *HTTPChecker) Check(ctx context.Context, target string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Outcome{Err: err.Error()}
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	return Outcome{StatusCode: &code}
}
