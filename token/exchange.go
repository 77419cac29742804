// Package token performs the guest-access extension grant against a token endpoint
// and classifies the answer.
package token

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/jrsteele09/go-guest-auth-client/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type options struct {
	httpClient *http.Client
	authStyle  oauth2.AuthStyle
}

type Option func(*options)

// WithHTTPClient sets the client the token request is sent through
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithAuthStyle picks how the client id and secret are transmitted.
// oauth2.AuthStyleAutoDetect is ignored because it may send the request twice.
func WithAuthStyle(style oauth2.AuthStyle) Option {
	return func(o *options) {
		if style != oauth2.AuthStyleAutoDetect {
			o.authStyle = style
		}
	}
}

// ExchangeGuestGrant sends one guest-access grant request to req.TokenEndpoint.
//
// A non-nil error means the exchange did not produce an OAuth answer: ErrInvalidInput for an
// incomplete request, ErrGrantTransport when the endpoint could not be reached or replied with
// something that is not an OAuth token response. A rejected grant is a normal outcome and is
// returned as a Result with IsError set and a nil error.
func ExchangeGuestGrant(ctx context.Context, req oauthmodel.GrantRequest, opts ...Option) (*Result, error) {
	o := options{authStyle: oauth2.AuthStyleInHeader}
	for _, opt := range opts {
		opt(&o)
	}

	if err := req.Validate(); err != nil {
		return nil, errors.Join(errors.ErrInvalidInput, err)
	}

	base := http.DefaultTransport
	if o.httpClient != nil && o.httpClient.Transport != nil {
		base = o.httpClient.Transport
	}
	recorder := &bodyRecorder{next: base}
	client := &http.Client{Transport: recorder}
	if o.httpClient != nil {
		client.Timeout = o.httpClient.Timeout
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	cfg := &clientcredentials.Config{
		ClientID:       req.ClientID,
		ClientSecret:   req.ClientSecret,
		TokenURL:       req.TokenEndpoint,
		Scopes:         req.Scopes(),
		EndpointParams: req.EndpointParams(),
		AuthStyle:      o.authStyle,
	}

	log.Debug().
		Str("token_endpoint", req.TokenEndpoint).
		Str("grant_type", string(req.GrantType)).
		Str("client_id", req.ClientID).
		Msg("requesting guest grant")

	tok, err := cfg.Token(ctx)
	if err != nil {
		return classify(req, err)
	}

	result := &Result{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		RawJSON:     recorder.Body(),
	}
	if v, ok := tok.Extra("expires_in").(float64); ok {
		result.ExpiresIn = int64(v)
	}
	if v, ok := tok.Extra("scope").(string); ok {
		result.Scope = v
	}
	return result, nil
}

// classify separates a provider's OAuth rejection from a failure to get an OAuth answer at all
func classify(req oauthmodel.GrantRequest, err error) (*Result, error) {
	var retrieveErr *oauth2.RetrieveError
	if stderrors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode != "" {
			log.Debug().
				Str("error", retrieveErr.ErrorCode).
				Str("error_description", retrieveErr.ErrorDescription).
				Msg("guest grant denied")
			return &Result{
				Error:            retrieveErr.ErrorCode,
				ErrorDescription: retrieveErr.ErrorDescription,
				RawJSON:          string(retrieveErr.Body),
			}, nil
		}
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return nil, errors.Join(errors.ErrGrantTransport, errors.Wrapf(err, "%s answered status %d without an OAuth error", req.TokenEndpoint, status))
	}
	return nil, errors.Join(errors.ErrGrantTransport, errors.Wrapf(err, "requesting %s", req.TokenEndpoint))
}
