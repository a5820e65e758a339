package valorant

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Teamgrid/internal/ratelimit"
)

var (
	ErrAPIKeyMissing     = errors.New("HENRIK_API_KEY is not configured")
	ErrMalformedResponse = errors.New("malformed Henrik API response")
	ErrInvalidRiotID     = errors.New("riot id must look like name#tag")
)

// APIError is a non-2xx answer from the Henrik API.
type APIError struct {
	StatusCode int
	Body       string
	// retryAfter comes from the Retry-After header when present.
	retryAfter time.Duration
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Henrik API error: %d - %s", e.StatusCode, body)
}

// RateLimited reports whether the API answered 429.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// RetryAfter prefers the Retry-After header and falls back to a hint in the
// response body.
func (e *APIError) RetryAfter() (time.Duration, bool) {
	if e.retryAfter > 0 {
		return e.retryAfter, true
	}
	return ratelimit.ParseRetryAfter(e.Body)
}

var _ ratelimit.RateLimited = (*APIError)(nil)
