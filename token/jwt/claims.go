package jwt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-guest-auth-client/internal/utils"
)

// ErrOpaqueToken is returned for access tokens that are not JWTs. Opaque reference
// tokens are valid; there is just nothing to decode.
var ErrOpaqueToken = errors.New("access token is not a JWT")

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is a display view of an access token's payload.
// The signature is NOT checked; the downstream APIs are the authority on whether the token is valid.
type Claims struct {
	Issuer          string
	Subject         string
	Audience        []string
	ClientID        string
	Scope           string
	GuestIdentifier string
	Role            string
	Roles           []string
	IssuedAt        *time.Time
	ExpiresAt       *time.Time
	ID              string
	// Other holds every claim not mapped above, keyed by claim name
	Other map[string]any
}

// Expired reports whether exp has passed
func (c *Claims) Expired() bool {
	return c.ExpiresAt != nil && NowTimeFunc().After(*c.ExpiresAt)
}

// OtherKeys returns the names of unmapped claims in a stable order
func (c *Claims) OtherKeys() []string {
	keys := make([]string, 0, len(c.Other))
	for k := range c.Other {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode reads the claims of rawToken without verifying it
func Decode(rawToken string) (*Claims, error) {
	if strings.Count(rawToken, ".") != 2 {
		return nil, ErrOpaqueToken
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	out := &Claims{Other: map[string]any{}}
	out.Issuer, _ = claims.GetIssuer()
	out.Subject, _ = claims.GetSubject()
	if aud, err := claims.GetAudience(); err == nil {
		out.Audience = []string(aud)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = utils.Ptr(iat.Time)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = utils.Ptr(exp.Time)
	}
	out.ClientID, _ = claims["client_id"].(string)
	out.GuestIdentifier, _ = claims["guest_identifier"].(string)
	out.ID, _ = claims["jti"].(string)
	out.Scope = scopeClaim(claims["scope"])
	out.Role, out.Roles = roleClaims(claims)

	for k, v := range claims {
		switch k {
		case "iss", "sub", "aud", "iat", "exp", "nbf", "jti", "client_id", "guest_identifier", "scope", "role", "roles":
			continue
		}
		out.Other[k] = v
	}
	return out, nil
}

// scopeClaim accepts both the space separated string and the JSON array form
func scopeClaim(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []any:
		return strings.Join(utils.ToStringSlice(s), " ")
	}
	return ""
}

// roleClaims reads "role" (string or array, as IdentityServer emits it) and "roles"
func roleClaims(claims jwtlib.MapClaims) (string, []string) {
	var roles []string
	switch r := claims["role"].(type) {
	case string:
		roles = append(roles, r)
	case []any:
		roles = append(roles, utils.ToStringSlice(r)...)
	}
	if r, ok := claims["roles"].([]any); ok {
		for _, role := range utils.ToStringSlice(r) {
			if !contains(roles, role) {
				roles = append(roles, role)
			}
		}
	}
	if len(roles) == 0 {
		return "", nil
	}
	return roles[0], roles
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
