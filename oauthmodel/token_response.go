package oauthmodel

// TokenResponse represents a successful response from the token endpoint (RFC 6749 section 5.1).
type TokenResponse struct {
	// AccessToken is the bearer credential presented to downstream APIs.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType indicates how to use the access token, "Bearer" for IdentityServer.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in,omitempty"`

	// Scope indicates the access token's granted permissions.
	Scope string `json:"scope,omitempty"`
}

// ErrorResponse is the token endpoint error body (RFC 6749 section 5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
