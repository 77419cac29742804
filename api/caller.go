// Package api calls downstream APIs with a bearer access token and reports what they answer.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const maxResponseBody = 1 << 20

// EndpointID names a downstream API
type EndpointID string

const (
	// EchoClaims returns the claims the API saw in the caller's token
	EchoClaims EndpointID = "echo-claims"
	// PlayerInfo returns the caller's player record and role check
	PlayerInfo EndpointID = "player-info"
)

// Endpoint is a downstream API and the URL it lives at
type Endpoint struct {
	ID  EndpointID
	URL string
}

// CallResult is what one downstream call produced. Body holds the raw response body,
// or a diagnostic message when no response was received.
type CallResult struct {
	Endpoint   EndpointID
	URL        string
	StatusCode int
	Body       string
	// Truncated is set when the response was longer than the body cap and Body holds only its start
	Truncated bool
	Success   bool
	Err       error
}

type options struct {
	httpClient *http.Client
	sequential bool
}

type Option func(*options)

// WithHTTPClient sets the client the oauth2 transport wraps
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithSequential makes CallAll issue calls one after another
func WithSequential() Option {
	return func(o *options) {
		o.sequential = true
	}
}

// CallWithToken sends GET endpoint.URL with "Authorization: Bearer <accessToken>".
// The body is returned whatever the status; failures never panic or abort the caller.
func CallWithToken(ctx context.Context, endpoint Endpoint, accessToken string, opts ...Option) CallResult {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	result := CallResult{Endpoint: endpoint.ID, URL: endpoint.URL}
	if accessToken == "" {
		result.Err = errors.Wrapf(errors.ErrInvalidInput, "%s: access token is required", endpoint.ID)
		result.Body = result.Err.Error()
		return result
	}

	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		result.Err = errors.Join(errors.ErrDownstreamCall, errors.Wrapf(err, "building %s request", endpoint.ID))
		result.Body = result.Err.Error()
		return result
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("endpoint", string(endpoint.ID)).Msg("downstream call failed")
		result.Err = errors.Join(errors.ErrDownstreamCall, errors.Wrapf(err, "%s unreachable", endpoint.ID))
		result.Body = fmt.Sprintf("Unable to call %s at '%s': %v", endpoint.ID, endpoint.URL, err)
		return result
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if len(body) > maxResponseBody {
		body = body[:maxResponseBody]
		result.Truncated = true
		log.Warn().Str("endpoint", string(endpoint.ID)).Int("limit", maxResponseBody).Msg("response body truncated")
	}
	result.StatusCode = resp.StatusCode
	result.Body = string(body)
	if err != nil {
		result.Err = errors.Join(errors.ErrDownstreamCall, errors.Wrapf(err, "%s: reading response", endpoint.ID))
		return result
	}

	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !result.Success {
		result.Err = errors.Wrapf(errors.ErrDownstreamCall, "%s answered %s", endpoint.ID, resp.Status)
	}
	return result
}

// CallAll calls every endpoint with the same token. Results are in endpoint order.
// Calls run concurrently unless WithSequential is given; a failed call never cancels a sibling.
func CallAll(ctx context.Context, endpoints []Endpoint, accessToken string, opts ...Option) []CallResult {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]CallResult, len(endpoints))
	if o.sequential {
		for i, endpoint := range endpoints {
			results[i] = CallWithToken(ctx, endpoint, accessToken, opts...)
		}
		return results
	}

	var g errgroup.Group
	for i, endpoint := range endpoints {
		g.Go(func() error {
			results[i] = CallWithToken(ctx, endpoint, accessToken, opts...)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
