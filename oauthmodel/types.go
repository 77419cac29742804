package oauthmodel

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// GuestAccessGrant is the provider specific extension grant that exchanges a guest
	// identifier for an access token.
	// Token request includes: client credentials, scope, guest_identifier
	GuestAccessGrant GrantType = "guest-access"

	// ClientCredentialsGrant is what the token library sends when grant_type is not overridden.
	ClientCredentialsGrant GrantType = "client_credentials"
)

const (
	// NetherAllScope is the audience scope requested with every guest grant
	NetherAllScope = "nether-all"

	// GuestIdentifierParam carries the guest identifier in the token request body
	GuestIdentifierParam = "guest_identifier"
)

// OAuth error codes a guest grant is commonly rejected with
const (
	ErrorInvalidRequest         = "invalid_request"
	ErrorInvalidClient          = "invalid_client"
	ErrorInvalidGrant           = "invalid_grant"
	ErrorUnauthorizedClient     = "unauthorized_client"
	ErrorUnsupportedGrantType   = "unsupported_grant_type"
	ErrorInvalidScope           = "invalid_scope"
	ErrorInvalidGuestIdentifier = "invalid_guest_identifier"
)

// ParseClientAuthStyle maps a config value onto the transmission style used for the client id and secret.
// "header" (HTTP Basic) is what IdentityServer expects by default.
func ParseClientAuthStyle(s string) (oauth2.AuthStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "header", "basic":
		return oauth2.AuthStyleInHeader, nil
	case "params", "body", "post":
		return oauth2.AuthStyleInParams, nil
	}
	return oauth2.AuthStyleAutoDetect, fmt.Errorf("%w: %q (use header or params)", ErrInvalidAuthStyle, s)
}
