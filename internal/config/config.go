package config

type Config interface {
	EnvConfig
	OAuthConfig
	TransportConfig
}

type EnvConfig interface {
	GetAppName() string
	GetIdentityURL() string
	GetAPIURL() string
	GetEchoClaimsURL() string
	GetPlayerInfoURL() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Transport
}

// New composes a Config from already decoded (and possibly flag-overridden) values
func New(vars EnvVars) Config {
	return mainConfig{
		EnvVars:   vars,
		OAuth:     OAuth{vars: vars},
		Transport: Transport{vars: vars},
	}
}

// FromEnv decodes the environment and composes a Config from it
func FromEnv() (Config, error) {
	vars, err := LoadEnvVars()
	if err != nil {
		return nil, err
	}
	return New(vars), nil
}
