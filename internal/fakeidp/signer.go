package fakeidp

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenExpiry = 1 * time.Hour

// hmacSigner signs access tokens with symmetric HMAC-SHA256
type hmacSigner struct {
	secret []byte
}

func newHMACSigner(secret string) *hmacSigner {
	return &hmacSigner{
		secret: []byte(secret),
	}
}

func (h *hmacSigner) Sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC: %w", err)
	}
	return signedToken, nil
}

func (h *hmacSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

// createAccessToken issues a guest access token. Every call gets a fresh jti, so two grants
// for the same guest never return the same token.
func (s *Server) createAccessToken(clientID, guestID, scope string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":              s.issuer(),
		"aud":              s.issuer() + "/resources",
		"client_id":        clientID,
		"scope":            scope,
		"sub":              "guest:" + guestID,
		"guest_identifier": guestID,
		"role":             "player",
		"roles":            []string{"player"},
		"iat":              now.Unix(),
		"exp":              now.Add(accessTokenExpiry).Unix(),
		"jti":              uuid.New().String(),
	}
	return s.signer.Sign(claims)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
