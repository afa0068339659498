package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotReady is returned when a selection is attempted before the
	// inference engine has a model loaded
	ErrEngineNotReady = errors.New("inference engine not ready - no model loaded")

	// ErrNoAccessToken is returned when the token endpoint responds without
	// an access_token field
	ErrNoAccessToken = errors.New("no access_token found in response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrReportNotFound is returned when a batch report is not in the store
	ErrReportNotFound = errors.New("batch report not found")
)

// AuthError is the fatal batch error: token acquisition failed. Nothing is
// processed after it.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token request failed: %v", e.Err)
	}
	return fmt.Sprintf("token request failed: %d - %s", e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SearchError is a per-item terminal failure from the catalog search
// endpoint. The orchestrator converts it into a Failure outcome.
type SearchError struct {
	Item       string
	StatusCode int
	Body       string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed for %q: %d - %s", e.Item, e.StatusCode, e.Body)
}

// BasketError is returned as a value (never panics past the orchestrator)
// when an add-to-basket request is rejected. It distinguishes "chosen but
// not added" from a full item failure.
type BasketError struct {
	StatusCode int
	Body       string
}

func (e *BasketError) Error() string {
	return fmt.Sprintf("could not add to basket: %d", e.StatusCode)
}
