package cli

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/jrsteele09/go-guest-auth-client/token"
)

// Process exit codes
const (
	ExitOK                     = 0
	ExitUsage                  = 1
	ExitDiscoveryUnreachable   = 2
	ExitDiscoveryMisconfigured = 3
	ExitGrantTransport         = 4
	ExitGrantDenied            = 5
	ExitCancelled              = 130
)

// ExitCode maps an error returned by a guest flow run to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, errors.ErrInvalidInput):
		return ExitUsage
	case errors.Is(err, errors.ErrDiscoveryUnreachable):
		return ExitDiscoveryUnreachable
	case errors.Is(err, errors.ErrDiscoveryMisconfigured):
		return ExitDiscoveryMisconfigured
	case errors.Is(err, errors.ErrGrantTransport):
		return ExitGrantTransport
	case errors.Is(err, errors.ErrGrantDenied):
		return ExitGrantDenied
	}
	return ExitUsage
}

// Describe turns an error into the message shown to the operator
func Describe(err error, identityURL string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.Is(err, errors.ErrInvalidInput):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, errors.ErrDiscoveryUnreachable):
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("Timed out discovering token endpoint from '%s' - is the server online?", identityURL)
		}
		return fmt.Sprintf("Unable to discover token endpoint from '%s' - is the server online?", identityURL)
	case errors.Is(err, errors.ErrDiscoveryMisconfigured):
		return fmt.Sprintf("Identity provider at '%s' is misconfigured: %v", identityURL, err)
	case errors.Is(err, errors.ErrGrantTransport):
		return fmt.Sprintf("Token request failed before the provider answered: %v", err)
	case errors.Is(err, errors.ErrGrantDenied):
		var denied *token.GrantDeniedError
		if errors.As(err, &denied) {
			if denied.Description != "" {
				return fmt.Sprintf("%s (%s)", denied.Code, denied.Description)
			}
			return denied.Code
		}
	}
	return err.Error()
}
