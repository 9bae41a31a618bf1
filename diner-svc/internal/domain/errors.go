package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingScanParams = errors.New("missing hotelId, branchId or tableNo")
	ErrMissingScope      = errors.New("hotel and branch must be selected")
	ErrNoAccessToken     = errors.New("no access token")
)

// APIError is a non-2xx response from the ordering backend. Message carries the
// backend's own message verbatim when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// UserMessage picks the backend message when present, else fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
