// Package discovery resolves an identity provider's OpenID Connect metadata document
// and extracts the endpoints the guest flow needs.
package discovery

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/rs/zerolog/log"
)

// WellKnownPath is appended to the root URL to locate the metadata document
const WellKnownPath = "/.well-known/openid-configuration"

// Document is the part of the provider metadata the client cares about
type Document struct {
	// RootURL is the URL the document was fetched from, without the well-known suffix
	RootURL string `json:"-"`

	Issuer              string   `json:"issuer"`
	TokenEndpoint       string   `json:"token_endpoint"`
	GrantTypesSupported []string `json:"grant_types_supported"`
	ScopesSupported     []string `json:"scopes_supported"`
}

// SupportsGrant reports whether the provider advertises grantType. Providers that omit
// grant_types_supported are assumed to support it.
func (d *Document) SupportsGrant(grantType string) bool {
	if len(d.GrantTypesSupported) == 0 {
		return true
	}
	for _, g := range d.GrantTypesSupported {
		if g == grantType {
			return true
		}
	}
	return false
}

type options struct {
	httpClient      *http.Client
	skipIssuerCheck bool
}

type Option func(*options)

// WithHTTPClient sets the client the metadata request is sent through
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithSkipIssuerCheck accepts a document whose issuer differs from the root URL
func WithSkipIssuerCheck() Option {
	return func(o *options) {
		o.skipIssuerCheck = true
	}
}

// Resolve fetches {rootURL}/.well-known/openid-configuration.
//
// Transport failures, non-200 answers and undecodable documents return ErrDiscoveryUnreachable.
// A document that was fetched but has no token endpoint, or names a different issuer, returns
// ErrDiscoveryMisconfigured together with the document so the caller can show what was served.
func Resolve(ctx context.Context, rootURL string, opts ...Option) (*Document, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	rootURL = strings.TrimSuffix(strings.TrimSpace(rootURL), "/")
	if err := validateRootURL(rootURL); err != nil {
		return nil, err
	}

	if o.httpClient != nil {
		ctx = oidc.ClientContext(ctx, o.httpClient)
	}
	// Issuer validation is done below so a mismatch is reported as misconfiguration, not as an outage.
	ctx = oidc.InsecureIssuerURLContext(ctx, rootURL)

	log.Debug().Str("url", rootURL+WellKnownPath).Msg("fetching discovery document")
	provider, err := oidc.NewProvider(ctx, rootURL)
	if err != nil {
		return nil, errors.Join(errors.ErrDiscoveryUnreachable, errors.Wrapf(err, "fetching %s", rootURL+WellKnownPath))
	}

	doc := &Document{RootURL: rootURL}
	if err := provider.Claims(doc); err != nil {
		return nil, errors.Join(errors.ErrDiscoveryUnreachable, errors.Wrapf(err, "decoding discovery document"))
	}
	doc.TokenEndpoint = strings.TrimSpace(doc.TokenEndpoint)

	if doc.TokenEndpoint == "" {
		return doc, errors.Wrapf(errors.ErrDiscoveryMisconfigured, "no token_endpoint published at %s", rootURL+WellKnownPath)
	}
	if !o.skipIssuerCheck && strings.TrimSuffix(doc.Issuer, "/") != rootURL {
		return doc, errors.Wrapf(errors.ErrDiscoveryMisconfigured, "issuer %q does not match %q", doc.Issuer, rootURL)
	}
	return doc, nil
}

func validateRootURL(rootURL string) error {
	if rootURL == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "identity root URL is required")
	}
	u, err := url.Parse(rootURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "identity root URL %q must be absolute", rootURL)
	}
	return nil
}
