package oauthmodel

import "errors"

var (
	ErrMissingTokenEndpoint   = errors.New("token endpoint is required")
	ErrMissingClientID        = errors.New("client id is required")
	ErrMissingClientSecret    = errors.New("client secret is required")
	ErrMissingGuestIdentifier = errors.New("guest identifier is required")
	ErrInvalidAuthStyle       = errors.New("unsupported client auth style")
)
