package oauthmodel

import (
	"net/url"
	"strings"
)

// GrantRequest holds everything sent to the token endpoint for a single guest grant.
// It is built immediately before the exchange and used once.
type GrantRequest struct {
	// TokenEndpoint is the token_endpoint taken from the discovery document.
	TokenEndpoint string

	// ClientID identifies the OAuth2 client making the request.
	// Example: "devclient"
	ClientID string

	// ClientSecret is the secret credential for the confidential client.
	// Security: Never log or expose this value
	ClientSecret string

	// GrantType is always GuestAccessGrant for requests built by NewGuestGrantRequest.
	GrantType GrantType

	// Scope is the space separated audience scope, always NetherAllScope for guest grants.
	Scope string

	// ExtensionParameters are additional body parameters of the extension grant.
	// Example: {"guest_identifier": "guest-42"}
	ExtensionParameters map[string]string

	// AllowEmptyGuestIdentifier lets a diagnostic run send an empty guest identifier
	// so the provider's rejection can be observed.
	AllowEmptyGuestIdentifier bool
}

// NewGuestGrantRequest builds the guest-access grant request for the given credentials
func NewGuestGrantRequest(tokenEndpoint, clientID, clientSecret, guestIdentifier string) GrantRequest {
	return GrantRequest{
		TokenEndpoint: tokenEndpoint,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		GrantType:     GuestAccessGrant,
		Scope:         NetherAllScope,
		ExtensionParameters: map[string]string{
			GuestIdentifierParam: guestIdentifier,
		},
	}
}

// GuestIdentifier returns the guest_identifier extension parameter
func (r GrantRequest) GuestIdentifier() string {
	return r.ExtensionParameters[GuestIdentifierParam]
}

// Validate checks the request is complete enough to dispatch
func (r GrantRequest) Validate() error {
	if strings.TrimSpace(r.TokenEndpoint) == "" {
		return ErrMissingTokenEndpoint
	}
	if r.ClientID == "" {
		return ErrMissingClientID
	}
	if r.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	if r.GuestIdentifier() == "" && !r.AllowEmptyGuestIdentifier {
		return ErrMissingGuestIdentifier
	}
	return nil
}

// EndpointParams renders the grant type and extension parameters as form values.
// Client credentials and scope are added by the token library.
func (r GrantRequest) EndpointParams() url.Values {
	v := url.Values{}
	grantType := r.GrantType
	if grantType == "" {
		grantType = GuestAccessGrant
	}
	v.Set("grant_type", string(grantType))
	for k, p := range r.ExtensionParameters {
		v.Set(k, p)
	}
	return v
}

// Scopes splits Scope into the list form the token library expects
func (r GrantRequest) Scopes() []string {
	return strings.Fields(r.Scope)
}
