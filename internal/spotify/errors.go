package spotify

import (
	"errors"
	"fmt"
)

var (
	// ErrStateMismatch indicates the state echoed back in the callback does not match
	// the state sent with the authorize request.  This is treated as a CSRF attempt
	// and the flow must be aborted, never downgraded to a warning.
	ErrStateMismatch = errors.New("spotify: callback state does not match authorize request state")

	// ErrCallbackFailed indicates a token exchange was attempted with a callback that
	// carries a provider error instead of an authorization code.  Callers must branch
	// on Callback.Failed before exchanging.
	ErrCallbackFailed = errors.New("spotify: callback carries no authorization code")
)

// FieldError reports a request or callback field that is missing or invalid.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("spotify: field %s: %s", e.Field, e.Reason)
}

// ParseError reports a URI that could not be parsed at all.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spotify: cannot parse %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError wraps a transport level failure while talking to the token endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("spotify: token endpoint request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProviderError is a non-200 response from the token endpoint.  The body is kept
// verbatim because the accounts service puts the error description there.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("spotify: token endpoint rejected the exchange (status %d): %s", e.StatusCode, e.Body)
}

// DecodeError reports a token endpoint response body that was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("spotify: cannot decode token response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
