package auth

import "errors"

var (
	ErrMissingClientID        = errors.New("client id is required")
	ErrMissingClientSecret    = errors.New("client secret is required")
	ErrMissingGuestIdentifier = errors.New("guest identifier is required")
	ErrIllegalTransition      = errors.New("illegal state transition")
)
