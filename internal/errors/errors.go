package errors

import (
	"errors"
	"fmt"
)

// Error kinds reported by the guest authentication flow
var (
	// Discovery errors
	ErrDiscoveryUnreachable   = errors.New("discovery document unreachable")
	ErrDiscoveryMisconfigured = errors.New("discovery document misconfigured")

	// Grant errors
	ErrGrantTransport = errors.New("token endpoint unreachable")
	ErrGrantDenied    = errors.New("guest grant denied")

	// Downstream API errors
	ErrDownstreamCall = errors.New("downstream call failed")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join combines a sentinel kind with the underlying cause so both match errors.Is
func Join(kind error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
