package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-guest-auth-client/token/jwt"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return s
}

func TestDecode(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := signed(t, jwtlib.MapClaims{
		"iss":              "https://idp.example.test",
		"sub":              "guest:guest-42",
		"aud":              []string{"nether-all", "api"},
		"client_id":        "devclient",
		"scope":            []string{"nether-all"},
		"guest_identifier": "guest-42",
		"role":             "player",
		"roles":            []string{"player", "tester"},
		"iat":              now.Unix(),
		"exp":              now.Add(time.Hour).Unix(),
		"jti":              "abc",
		"tenant":           "nether",
	})

	claims, err := jwt.Decode(raw)
	require.NoError(t, err)

	require.Equal(t, "https://idp.example.test", claims.Issuer)
	require.Equal(t, "guest:guest-42", claims.Subject)
	require.Equal(t, []string{"nether-all", "api"}, claims.Audience)
	require.Equal(t, "devclient", claims.ClientID)
	require.Equal(t, "nether-all", claims.Scope)
	require.Equal(t, "guest-42", claims.GuestIdentifier)
	require.Equal(t, "player", claims.Role)
	require.Equal(t, []string{"player", "tester"}, claims.Roles)
	require.Equal(t, "abc", claims.ID)
	require.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	require.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	require.Equal(t, []string{"tenant"}, claims.OtherKeys())
}

func TestDecode_Expired(t *testing.T) {
	raw := signed(t, jwtlib.MapClaims{"exp": time.Unix(1_000, 0).Unix()})
	claims, err := jwt.Decode(raw)
	require.NoError(t, err, "expiry is reported, not enforced")

	original := jwt.NowTimeFunc
	defer func() { jwt.NowTimeFunc = original }()
	jwt.NowTimeFunc = func() time.Time { return time.Unix(2_000, 0) }
	require.True(t, claims.Expired())
}

func TestDecode_OpaqueToken(t *testing.T) {
	_, err := jwt.Decode("2YotnFZFEjr1zCsicMWpAA")
	require.ErrorIs(t, err, jwt.ErrOpaqueToken)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := jwt.Decode("not.a.jwt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse token")
}
