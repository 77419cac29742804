package config

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetGuestIdentifier() string
	GetClientAuthStyle() string
	GetSkipIssuerCheck() bool
	GetAllowEmptyGuestIdentifier() bool
}

type OAuth struct {
	vars EnvVars
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetClientID() string {
	return o.vars.ClientID
}

func (o OAuth) GetClientSecret() string {
	return o.vars.ClientSecret
}

func (o OAuth) GetGuestIdentifier() string {
	return o.vars.GuestIdentifier
}

// GetClientAuthStyle returns how client credentials reach the token endpoint ("header" or "params")
func (o OAuth) GetClientAuthStyle() string {
	if o.vars.AuthStyle == "" {
		return "header"
	}
	return o.vars.AuthStyle
}

func (o OAuth) GetSkipIssuerCheck() bool {
	return o.vars.SkipIssuerCheck
}

func (o OAuth) GetAllowEmptyGuestIdentifier() bool {
	return o.vars.AllowEmptyGuest
}
