package spotify

import (
	"crypto/subtle"
	"net/url"
)

// Callback is the parsed redirect from the accounts service.  Exactly one of Code
// or ErrorCode is set: Code when the user granted access, ErrorCode when they
// denied it or the request was rejected.
type Callback struct {
	Code      string
	ErrorCode string
	State     string
}

// ParseCallback parses the raw redirect URI the accounts service sent the user back
// with.  A callback carrying an error parameter is a valid parse result, not a parse
// failure, because the caller needs to see why authorization failed.  State may be
// absent on the error variant.
func ParseCallback(raw string) (*Callback, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	query := u.Query()

	if errCode := query.Get("error"); errCode != "" {
		return &Callback{ErrorCode: errCode, State: query.Get("state")}, nil
	}

	code := query.Get("code")
	if code == "" {
		return nil, &FieldError{Field: "code", Reason: "missing from callback"}
	}
	state := query.Get("state")
	if state == "" {
		return nil, &FieldError{Field: "state", Reason: "missing from callback"}
	}

	return &Callback{Code: code, State: state}, nil
}

// Failed reports whether the provider returned an error instead of an authorization code
func (c *Callback) Failed() bool {
	return c.ErrorCode != ""
}

// VerifyState compares the state echoed by the provider against the state of the
// original authorize request.  A mismatch means the callback was not triggered by
// our request and returns ErrStateMismatch, which must abort the flow.
func (c *Callback) VerifyState(expected string) error {
	if subtle.ConstantTimeCompare([]byte(c.State), []byte(expected)) != 1 {
		return ErrStateMismatch
	}
	return nil
}
