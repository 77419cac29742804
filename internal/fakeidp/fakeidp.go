// Package fakeidp runs an in-process identity provider that implements the guest-access
// extension grant, for tests that need a real HTTP peer.
package fakeidp

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

const (
	identityPrefix = "/identity"
	apiPrefix      = "/api"

	RouteWellKnownOpenIDConfig = identityPrefix + "/.well-known/openid-configuration"
	RouteToken                 = identityPrefix + "/connect/token"
	RouteEchoClaims            = apiPrefix + "/identity-test"
	RoutePlayerInfo            = apiPrefix + "/player"

	contentTypeJSON = "application/json; charset=utf-8"

	// DefaultClientID and DefaultClientSecret are registered unless WithClient replaces them
	DefaultClientID     = "devclient"
	DefaultClientSecret = "devsecret"

	signingSecret = "fakeidp-signing-secret"
)

// Client is a registered OAuth client
type Client struct {
	ID       string
	Secret   string
	Disabled bool
}

// Server is a running fake identity provider
type Server struct {
	*httptest.Server

	signer *hmacSigner

	lock             sync.RWMutex
	clients          map[string]*Client
	blockedGuests    map[string]struct{}
	issuerOverride   string
	omitTokenURL     bool
	tokenURLOverride string
	errorsAsOK       bool
	brokenPlayerInfo bool
	tokenRequests    []TokenRequest
}

// TokenRequest records what reached the token endpoint
type TokenRequest struct {
	Form            url.Values
	BasicAuthClient string
	UsedBasicAuth   bool
}

type Option func(*Server)

// WithClient registers an additional client
func WithClient(c Client) Option {
	return func(s *Server) {
		s.clients[c.ID] = &c
	}
}

// WithBlockedGuest makes the grant fail for this guest identifier
func WithBlockedGuest(guestID string) Option {
	return func(s *Server) {
		s.blockedGuests[guestID] = struct{}{}
	}
}

// WithIssuer publishes an issuer that differs from the discovery root
func WithIssuer(issuer string) Option {
	return func(s *Server) {
		s.issuerOverride = issuer
	}
}

// WithoutTokenEndpoint publishes a discovery document with an empty token_endpoint
func WithoutTokenEndpoint() Option {
	return func(s *Server) {
		s.omitTokenURL = true
	}
}

// WithTokenEndpoint publishes the given token_endpoint instead of the real one
func WithTokenEndpoint(tokenURL string) Option {
	return func(s *Server) {
		s.tokenURLOverride = tokenURL
	}
}

// WithErrorsAsOK answers grant errors with 200 instead of 400, like some non-compliant servers
func WithErrorsAsOK() Option {
	return func(s *Server) {
		s.errorsAsOK = true
	}
}

// WithBrokenPlayerInfo makes the player info endpoint answer 500
func WithBrokenPlayerInfo() Option {
	return func(s *Server) {
		s.brokenPlayerInfo = true
	}
}

// New starts a fake identity provider. Close it when done.
func New(opts ...Option) *Server {
	s := &Server{
		signer:        newHMACSigner(signingSecret),
		clients:       map[string]*Client{DefaultClientID: {ID: DefaultClientID, Secret: DefaultClientSecret}},
		blockedGuests: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}

	mw := []middleware{loggingMiddleware, recoverMiddleware}
	api := append(mw, s.requireAuth)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+RouteWellKnownOpenIDConfig, chain(s.wellKnownOpenIDConfig(), mw...))
	mux.HandleFunc("POST "+RouteToken, chain(s.token(), mw...))
	mux.HandleFunc("GET "+RouteEchoClaims, chain(s.echoClaims(), api...))
	mux.HandleFunc("GET "+RoutePlayerInfo, chain(s.playerInfo(), api...))
	s.Server = httptest.NewServer(mux)
	return s
}

// IdentityURL is the root URL discovery should be run against
func (s *Server) IdentityURL() string {
	return s.URL + identityPrefix
}

// TokenURL is the real token endpoint
func (s *Server) TokenURL() string {
	return s.URL + RouteToken
}

// EchoClaimsURL is the echo claims API
func (s *Server) EchoClaimsURL() string {
	return s.URL + RouteEchoClaims
}

// PlayerInfoURL is the player info API
func (s *Server) PlayerInfoURL() string {
	return s.URL + RoutePlayerInfo
}

// TokenRequests returns a copy of every request the token endpoint received
func (s *Server) TokenRequests() []TokenRequest {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]TokenRequest, len(s.tokenRequests))
	copy(out, s.tokenRequests)
	return out
}

func (s *Server) issuer() string {
	if s.issuerOverride != "" {
		return s.issuerOverride
	}
	return s.IdentityURL()
}
