package discovery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-guest-auth-client/discovery"
	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/jrsteele09/go-guest-auth-client/internal/fakeidp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestResolve_WellConfiguredProvider(t *testing.T) {
	idp := fakeidp.New()
	defer idp.Close()

	doc, err := discovery.Resolve(testContext(t), idp.IdentityURL())
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, idp.TokenURL(), doc.TokenEndpoint)
	assert.Equal(t, idp.IdentityURL(), doc.RootURL)
	assert.Equal(t, idp.IdentityURL(), doc.Issuer)
	assert.True(t, doc.SupportsGrant("guest-access"))
	assert.Contains(t, doc.ScopesSupported, "nether-all")
}

func TestResolve_TrailingSlashRoot(t *testing.T) {
	idp := fakeidp.New()
	defer idp.Close()

	doc, err := discovery.Resolve(testContext(t), idp.IdentityURL()+"/")
	require.NoError(t, err)
	assert.Equal(t, idp.TokenURL(), doc.TokenEndpoint)
}

func TestResolve_ExactTokenEndpoint(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issuer":"` + server.URL + `","token_endpoint":"https://idp.example.test/connect/token"}`))
	}))
	defer server.Close()

	doc, err := discovery.Resolve(testContext(t), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.test/connect/token", doc.TokenEndpoint)
	assert.True(t, doc.SupportsGrant("guest-access"), "missing grant_types_supported is permissive")
}

func TestResolve_Unreachable(t *testing.T) {
	t.Run("server offline", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		rootURL := server.URL
		server.Close()

		doc, err := discovery.Resolve(testContext(t), rootURL)
		require.Error(t, err)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
		assert.False(t, errors.Is(err, errors.ErrDiscoveryMisconfigured))
	})

	t.Run("non 200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		doc, err := discovery.Resolve(testContext(t), server.URL)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
	})

	t.Run("malformed document", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token_endpoint":`))
		}))
		defer server.Close()

		doc, err := discovery.Resolve(testContext(t), server.URL)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
	})
}

func TestResolve_Misconfigured(t *testing.T) {
	t.Run("empty token endpoint", func(t *testing.T) {
		idp := fakeidp.New(fakeidp.WithoutTokenEndpoint())
		defer idp.Close()

		doc, err := discovery.Resolve(testContext(t), idp.IdentityURL())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrDiscoveryMisconfigured))
		assert.False(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
		require.NotNil(t, doc)
		assert.Empty(t, doc.TokenEndpoint)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		idp := fakeidp.New(fakeidp.WithIssuer("https://someone-else.example.test"))
		defer idp.Close()

		_, err := discovery.Resolve(testContext(t), idp.IdentityURL())
		assert.True(t, errors.Is(err, errors.ErrDiscoveryMisconfigured))

		doc, err := discovery.Resolve(testContext(t), idp.IdentityURL(), discovery.WithSkipIssuerCheck())
		require.NoError(t, err)
		assert.Equal(t, idp.TokenURL(), doc.TokenEndpoint)
	})
}

func TestResolve_InvalidRootURL(t *testing.T) {
	for _, rootURL := range []string{"", "   ", "idp.example.test", "/identity"} {
		_, err := discovery.Resolve(testContext(t), rootURL)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput), rootURL)
	}
}

func TestResolve_UsesInjectedHTTPClient(t *testing.T) {
	idp := fakeidp.New()
	defer idp.Close()

	counting := &countingTransport{next: http.DefaultTransport}
	_, err := discovery.Resolve(testContext(t), idp.IdentityURL(), discovery.WithHTTPClient(&http.Client{Transport: counting}))
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls)
}

func TestResolve_Cancelled(t *testing.T) {
	idp := fakeidp.New()
	defer idp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := discovery.Resolve(ctx, idp.IdentityURL())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingTransport struct {
	next  http.RoundTripper
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(req)
}

func TestResolve_OnlyStatusOKIsAccepted(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write([]byte(`{"issuer":"` + server.URL + `","token_endpoint":"` + server.URL + `/connect/token"}`))
	}))
	defer server.Close()

	doc, err := discovery.Resolve(testContext(t), server.URL)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
	assert.Contains(t, err.Error(), "fetching "+server.URL+discovery.WellKnownPath)
	assert.Contains(t, err.Error(), "203")
}
