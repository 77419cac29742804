package token

import (
	"fmt"

	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
)

// Result is the outcome of a guest grant that reached the token endpoint.
// Exactly one of AccessToken (success) or Error (denial) is set.
type Result struct {
	// Success
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	Scope       string

	// Failure
	Error            string
	ErrorDescription string

	// RawJSON is the token endpoint's response body, kept for display
	RawJSON string
}

// IsError reports whether the provider rejected the grant
func (r *Result) IsError() bool {
	return r.Error != ""
}

// Err returns a *GrantDeniedError for a rejected grant and nil otherwise
func (r *Result) Err() error {
	if !r.IsError() {
		return nil
	}
	return &GrantDeniedError{Code: r.Error, Description: r.ErrorDescription}
}

// GrantDeniedError is the provider's verbatim OAuth error for a rejected grant
type GrantDeniedError struct {
	Code        string
	Description string
}

func (e *GrantDeniedError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s: %s", errors.ErrGrantDenied, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", errors.ErrGrantDenied, e.Code, e.Description)
}

// Is lets errors.Is(err, ErrGrantDenied) match
func (e *GrantDeniedError) Is(target error) bool {
	return target == errors.ErrGrantDenied
}
