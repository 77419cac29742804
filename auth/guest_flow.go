// Package auth sequences discovery, the guest grant and the downstream calls into one diagnostic run.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-guest-auth-client/api"
	"github.com/jrsteele09/go-guest-auth-client/discovery"
	"github.com/jrsteele09/go-guest-auth-client/internal/config"
	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/jrsteele09/go-guest-auth-client/internal/transport"
	"github.com/jrsteele09/go-guest-auth-client/oauthmodel"
	"github.com/jrsteele09/go-guest-auth-client/token"
	"github.com/jrsteele09/go-guest-auth-client/token/jwt"
	"github.com/rs/zerolog/log"
)

const userAgent = "go-guest-auth-client"

// Credentials are supplied by the caller; the flow never prompts for them
type Credentials struct {
	ClientID        string
	ClientSecret    string
	GuestIdentifier string
}

// Report is everything a run observed. Token holds the access token only for the lifetime of the report.
type Report struct {
	CorrelationID string
	RootURL       string
	State         State
	Transitions   []State

	Document  *discovery.Document
	Token     *token.Result
	Claims    *jwt.Claims
	ClaimsErr error
	Calls     []api.CallResult
}

// DownstreamFailures returns the calls that did not succeed
func (r *Report) DownstreamFailures() []api.CallResult {
	var failed []api.CallResult
	for _, c := range r.Calls {
		if !c.Success {
			failed = append(failed, c)
		}
	}
	return failed
}

func (r *Report) moveTo(to State) {
	if !r.State.CanTransition(to) {
		panic(fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, r.State, to))
	}
	log.Debug().Str("correlation_id", r.CorrelationID).Str("from", string(r.State)).Str("to", string(to)).Msg("guest flow")
	r.State = to
	r.Transitions = append(r.Transitions, to)
}

type (
	DiscoverFunc func(ctx context.Context, rootURL string, opts ...discovery.Option) (*discovery.Document, error)
	ExchangeFunc func(ctx context.Context, req oauthmodel.GrantRequest, opts ...token.Option) (*token.Result, error)
	CallAllFunc  func(ctx context.Context, endpoints []api.Endpoint, accessToken string, opts ...api.Option) []api.CallResult
)

// GuestFlow runs discovery, the guest grant and the downstream calls once per Run
type GuestFlow struct {
	RootURL   string
	Endpoints []api.Endpoint

	// AllowEmptyGuestIdentifier sends an empty guest identifier to the provider instead of refusing locally
	AllowEmptyGuestIdentifier bool

	// Timeout bounds a whole run; zero means only ctx bounds it
	Timeout time.Duration

	CorrelationID    string
	DiscoveryOptions []discovery.Option
	TokenOptions     []token.Option
	APIOptions       []api.Option

	Discover DiscoverFunc
	Exchange ExchangeFunc
	CallAll  CallAllFunc
}

// NewGuestFlow builds a flow from configuration, sharing one HTTP client across all requests of a run
func NewGuestFlow(cfg config.Config) (*GuestFlow, error) {
	authStyle, err := oauthmodel.ParseClientAuthStyle(cfg.GetClientAuthStyle())
	if err != nil {
		return nil, errors.Join(errors.ErrInvalidInput, err)
	}

	correlationID := uuid.New().String()
	httpClient, err := transport.NewHTTPClient(transport.Options{
		CAFile:          cfg.GetCAFile(),
		InsecureSkipTLS: cfg.GetInsecureSkipTLS(),
		CorrelationID:   correlationID,
		UserAgent:       userAgent,
	})
	if err != nil {
		return nil, errors.Join(errors.ErrInvalidInput, err)
	}

	f := &GuestFlow{
		RootURL: cfg.GetIdentityURL(),
		Endpoints: []api.Endpoint{
			{ID: api.EchoClaims, URL: cfg.GetEchoClaimsURL()},
			{ID: api.PlayerInfo, URL: cfg.GetPlayerInfoURL()},
		},
		AllowEmptyGuestIdentifier: cfg.GetAllowEmptyGuestIdentifier(),
		Timeout:                   cfg.GetTimeout(),
		CorrelationID:             correlationID,
		DiscoveryOptions:          []discovery.Option{discovery.WithHTTPClient(httpClient)},
		TokenOptions:              []token.Option{token.WithHTTPClient(httpClient), token.WithAuthStyle(authStyle)},
		APIOptions:                []api.Option{api.WithHTTPClient(httpClient)},
	}
	if cfg.GetSkipIssuerCheck() {
		f.DiscoveryOptions = append(f.DiscoveryOptions, discovery.WithSkipIssuerCheck())
	}
	if cfg.GetSequentialCalls() {
		f.APIOptions = append(f.APIOptions, api.WithSequential())
	}
	return f, nil
}

// Run performs one forward pass. The returned error is nil only when the run reached StateDone;
// downstream call failures are reported in Report.Calls and do not make the run fail.
func (f *GuestFlow) Run(ctx context.Context, creds Credentials) (*Report, error) {
	report := &Report{
		CorrelationID: f.CorrelationID,
		RootURL:       f.RootURL,
		State:         StateStart,
		Transitions:   []State{StateStart},
	}
	if report.CorrelationID == "" {
		report.CorrelationID = uuid.New().String()
	}

	if err := f.validate(creds); err != nil {
		return report, errors.Join(errors.ErrInvalidInput, err)
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	report.moveTo(StateDiscovering)
	doc, err := f.discover()(ctx, f.RootURL, f.DiscoveryOptions...)
	report.Document = doc
	if err == nil && (doc == nil || doc.TokenEndpoint == "") {
		err = errors.Wrapf(errors.ErrDiscoveryMisconfigured, "no token endpoint discovered from %s", f.RootURL)
	}
	if err != nil {
		log.Err(err).Str("correlation_id", report.CorrelationID).Msg("discovery failed")
		report.moveTo(StateDiscoveryFailed)
		return report, err
	}
	report.moveTo(StateDiscovered)
	if !doc.SupportsGrant(string(oauthmodel.GuestAccessGrant)) {
		log.Warn().Strs("grant_types_supported", doc.GrantTypesSupported).Msg("provider does not advertise the guest-access grant")
	}

	report.moveTo(StateExchanging)
	req := oauthmodel.NewGuestGrantRequest(doc.TokenEndpoint, creds.ClientID, creds.ClientSecret, creds.GuestIdentifier)
	req.AllowEmptyGuestIdentifier = f.AllowEmptyGuestIdentifier
	result, err := f.exchange()(ctx, req, f.TokenOptions...)
	if err != nil {
		log.Err(err).Str("correlation_id", report.CorrelationID).Msg("token exchange failed")
		report.moveTo(StateExchangeTransportFailed)
		return report, err
	}
	report.Token = result
	if result.IsError() {
		report.moveTo(StateGrantDenied)
		return report, result.Err()
	}
	report.moveTo(StateTokenIssued)

	report.Claims, report.ClaimsErr = jwt.Decode(result.AccessToken)

	report.moveTo(StateCalling)
	report.Calls = f.callAll()(ctx, f.Endpoints, result.AccessToken, f.APIOptions...)
	for _, c := range report.DownstreamFailures() {
		log.Warn().Err(c.Err).Str("endpoint", string(c.Endpoint)).Msg("downstream call failed")
	}
	report.moveTo(StateDone)
	return report, nil
}

func (f *GuestFlow) validate(creds Credentials) error {
	if creds.ClientID == "" {
		return ErrMissingClientID
	}
	if creds.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	if creds.GuestIdentifier == "" && !f.AllowEmptyGuestIdentifier {
		return ErrMissingGuestIdentifier
	}
	return nil
}

func (f *GuestFlow) discover() DiscoverFunc {
	if f.Discover != nil {
		return f.Discover
	}
	return discovery.Resolve
}

func (f *GuestFlow) exchange() ExchangeFunc {
	if f.Exchange != nil {
		return f.Exchange
	}
	return token.ExchangeGuestGrant
}

func (f *GuestFlow) callAll() CallAllFunc {
	if f.CallAll != nil {
		return f.CallAll
	}
	return api.CallAll
}
