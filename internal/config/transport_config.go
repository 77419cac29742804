package config

import "time"

type TransportConfig interface {
	GetTimeout() time.Duration
	GetCAFile() string
	GetInsecureSkipTLS() bool
	GetSequentialCalls() bool
}

type Transport struct {
	vars EnvVars
}

var _ TransportConfig = Transport{}

// GetTimeout bounds the whole run. Zero means no deadline.
func (t Transport) GetTimeout() time.Duration {
	if t.vars.Timeout < 0 {
		return 0
	}
	return t.vars.Timeout
}

func (t Transport) GetCAFile() string {
	return t.vars.CAFile
}

func (t Transport) GetInsecureSkipTLS() bool {
	return t.vars.InsecureSkipTLS
}

// GetSequentialCalls disables concurrent downstream calls, for APIs that share a rate limit
func (t Transport) GetSequentialCalls() bool {
	return t.vars.Sequential
}
