package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

const envPrefix = "GUESTAUTH_"

// EnvVars holds every setting the client reads from the environment.
// Command line flags are applied on top of a decoded value before New is called.
type EnvVars struct {
	AppName     string `env:"GUESTAUTH_APP_NAME,default=Guest Auth"`
	IdentityURL string `env:"GUESTAUTH_IDENTITY_URL,default=http://localhost:5000/identity"`
	APIURL      string `env:"GUESTAUTH_API_URL,default=http://localhost:5000/api"`
	EchoPath    string `env:"GUESTAUTH_ECHO_PATH,default=/identity-test"`
	PlayerPath  string `env:"GUESTAUTH_PLAYER_PATH,default=/player"`
	LogLevel    string `env:"GUESTAUTH_LOG_LEVEL,default=info"`

	ClientID        string `env:"GUESTAUTH_CLIENT_ID"`
	ClientSecret    string `env:"GUESTAUTH_CLIENT_SECRET"`
	GuestIdentifier string `env:"GUESTAUTH_GUEST_ID"`
	AuthStyle       string `env:"GUESTAUTH_AUTH_STYLE,default=header"`
	SkipIssuerCheck bool   `env:"GUESTAUTH_SKIP_ISSUER_CHECK,default=false"`
	AllowEmptyGuest bool   `env:"GUESTAUTH_ALLOW_EMPTY_GUEST_ID,default=false"`

	Timeout         time.Duration `env:"GUESTAUTH_TIMEOUT,default=30s"`
	CAFile          string        `env:"GUESTAUTH_CA_FILE"`
	InsecureSkipTLS bool          `env:"GUESTAUTH_INSECURE_SKIP_TLS,default=false"`
	Sequential      bool          `env:"GUESTAUTH_SEQUENTIAL,default=false"`

	NonInteractive bool `env:"GUESTAUTH_NON_INTERACTIVE,default=false"`
}

var _ EnvConfig = EnvVars{}

// LoadEnvVars decodes the GUESTAUTH_* environment, applying the tag defaults
func LoadEnvVars() (EnvVars, error) {
	var vars EnvVars
	if err := envdecode.Decode(&vars); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return EnvVars{}, fmt.Errorf("decoding %s* environment: %w", envPrefix, err)
	}
	return vars, nil
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetIdentityURL() string {
	return strings.TrimSuffix(e.IdentityURL, "/")
}

func (e EnvVars) GetAPIURL() string {
	return strings.TrimSuffix(e.APIURL, "/")
}

func (e EnvVars) GetEchoClaimsURL() string {
	return joinURL(e.GetAPIURL(), e.EchoPath)
}

func (e EnvVars) GetPlayerInfoURL() string {
	return joinURL(e.GetAPIURL(), e.PlayerPath)
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(strings.TrimSpace(e.LogLevel))
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
