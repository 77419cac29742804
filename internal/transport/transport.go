package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// CorrelationHeader is sent on every outbound request of a run
const CorrelationHeader = "X-Correlation-ID"

// Options controls how the outbound HTTP client is built
type Options struct {
	CAFile          string
	InsecureSkipTLS bool
	CorrelationID   string
	UserAgent       string
}

// NewHTTPClient builds the client shared by discovery, token exchange and downstream calls of one run.
// No client level timeout is set; the caller bounds the run with its context.
func NewHTTPClient(opts Options) (*http.Client, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if opts.CAFile != "" || opts.InsecureSkipTLS {
		tlsConfig, err := loadTLSConfig(opts.CAFile, opts.InsecureSkipTLS)
		if err != nil {
			return nil, err
		}
		base.TLSClientConfig = tlsConfig
	}
	return &http.Client{Transport: &RoundTripper{
		next:          base,
		correlationID: opts.CorrelationID,
		userAgent:     opts.UserAgent,
	}}, nil
}

func loadTLSConfig(caFile string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecure}
	if caFile == "" {
		return tlsConfig, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, errors.New("failed to parse CA file")
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// RoundTripper stamps the correlation id and user agent on requests and logs each exchange at debug level
type RoundTripper struct {
	next          http.RoundTripper
	correlationID string
	userAgent     string
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.correlationID != "" || rt.userAgent != "" {
		req = req.Clone(req.Context())
		if rt.correlationID != "" {
			req.Header.Set(CorrelationHeader, rt.correlationID)
		}
		if rt.userAgent != "" && req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", rt.userAgent)
		}
	}

	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Err(err).
			Str("method", req.Method).
			Str("url", redactedURL(req)).
			Str("correlation_id", rt.correlationID).
			Dur("elapsed", elapsed).
			Msg("request failed")
		return nil, err
	}
	log.Debug().
		Str("method", req.Method).
		Str("url", redactedURL(req)).
		Int("status", resp.StatusCode).
		Str("correlation_id", rt.correlationID).
		Dur("elapsed", elapsed).
		Msg("request completed")
	return resp, nil
}

// redactedURL drops the query string; it never carries anything useful for diagnostics here
func redactedURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
