package fakeidp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-guest-auth-client/oauthmodel"
)

type contextKey string

const contextKeyClaims contextKey = "claims"

// wellKnownOpenIDConfig serves the OIDC discovery document
func (s *Server) wellKnownOpenIDConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenURL := s.TokenURL()
		if s.tokenURLOverride != "" {
			tokenURL = s.tokenURLOverride
		}
		if s.omitTokenURL {
			tokenURL = ""
		}

		resp := map[string]any{
			"issuer":                   s.issuer(),
			"jwks_uri":                 s.IdentityURL() + "/.well-known/openid-configuration/jwks",
			"token_endpoint":           tokenURL,
			"response_types_supported": []string{"code"},
			"subject_types_supported":  []string{"public"},
			"scopes_supported":         []string{"openid", "profile", oauthmodel.NetherAllScope},
			"token_endpoint_auth_methods_supported": []string{
				"client_secret_basic",
				"client_secret_post",
			},
			"grant_types_supported": []string{
				string(oauthmodel.ClientCredentialsGrant),
				string(oauthmodel.GuestAccessGrant),
			},
			"id_token_signing_alg_values_supported": []string{"RS256"},
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// token implements the guest-access extension grant
func (s *Server) token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeJSONError(w, oauthmodel.ErrorInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		clientID, clientSecret, usedBasic := clientCredentials(r)
		s.lock.Lock()
		s.tokenRequests = append(s.tokenRequests, TokenRequest{
			Form:            cloneValues(r.PostForm),
			BasicAuthClient: clientIDIfBasic(clientID, usedBasic),
			UsedBasicAuth:   usedBasic,
		})
		client, known := s.clients[clientID]
		_, blocked := s.blockedGuests[r.PostForm.Get(oauthmodel.GuestIdentifierParam)]
		s.lock.Unlock()

		if !known || client.Secret != clientSecret {
			s.writeJSONError(w, oauthmodel.ErrorInvalidClient, "Client authentication failed", http.StatusUnauthorized)
			return
		}
		if client.Disabled {
			s.writeJSONError(w, oauthmodel.ErrorUnauthorizedClient, "Client is disabled", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != string(oauthmodel.GuestAccessGrant) {
			s.writeJSONError(w, oauthmodel.ErrorUnsupportedGrantType, "", http.StatusBadRequest)
			return
		}
		scope := r.PostForm.Get("scope")
		if !containsScope(scope, oauthmodel.NetherAllScope) {
			s.writeJSONError(w, oauthmodel.ErrorInvalidScope, "", http.StatusBadRequest)
			return
		}
		guestID := r.PostForm.Get(oauthmodel.GuestIdentifierParam)
		if strings.TrimSpace(guestID) == "" {
			s.writeJSONError(w, oauthmodel.ErrorInvalidGrant, oauthmodel.ErrorInvalidGuestIdentifier, http.StatusBadRequest)
			return
		}
		if blocked {
			s.writeJSONError(w, oauthmodel.ErrorInvalidGrant, "guest is blocked", http.StatusBadRequest)
			return
		}

		accessToken, err := s.createAccessToken(clientID, guestID, scope)
		if err != nil {
			s.writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(oauthmodel.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(accessTokenExpiry.Seconds()),
			Scope:       scope,
		})
	}
}

// requireAuth validates the bearer access token and puts its claims in the request context
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, `{"error":"unauthorized","error_description":"Missing Authorization header"}`, http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			http.Error(w, `{"error":"unauthorized","error_description":"Invalid Authorization header format"}`, http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], jwt.MapClaims{}, s.signer.GetVerificationKey)
		if err != nil || !token.Valid {
			http.Error(w, `{"error":"unauthorized","error_description":"Invalid token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyClaims, token.Claims.(jwt.MapClaims))
		next(w, r.WithContext(ctx))
	}
}

type claimJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// echoClaims returns every claim of the caller's token as type/value pairs
func (s *Server) echoClaims() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(contextKeyClaims).(jwt.MapClaims)

		keys := make([]string, 0, len(claims))
		for k := range claims {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]claimJSON, 0, len(keys))
		for _, k := range keys {
			switch v := claims[k].(type) {
			case []any:
				for _, item := range v {
					out = append(out, claimJSON{Type: k, Value: toString(item)})
				}
			default:
				out = append(out, claimJSON{Type: k, Value: toString(v)})
			}
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(out)
	}
}

// playerInfo reports the caller's role and whether it is authorised as a player
func (s *Server) playerInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.brokenPlayerInfo {
			http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
			return
		}
		claims, _ := r.Context().Value(contextKeyClaims).(jwt.MapClaims)
		role, _ := claims["role"].(string)
		guestID, _ := claims["guest_identifier"].(string)

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"gamertag": guestID,
			"role":     role,
			"isPlayer": role == "player",
			"isAdmin":  role == "admin",
		})
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	if s.errorsAsOK {
		statusCode = http.StatusOK
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(oauthmodel.ErrorResponse{
		Error:            errorCode,
		ErrorDescription: description,
	})
}

// clientCredentials reads the client id and secret from Basic auth or the form body
func clientCredentials(r *http.Request) (id, secret string, basic bool) {
	if user, pass, ok := r.BasicAuth(); ok {
		id, _ = url.QueryUnescape(user)
		secret, _ = url.QueryUnescape(pass)
		return id, secret, true
	}
	return r.PostForm.Get("client_id"), r.PostForm.Get("client_secret"), false
}

func clientIDIfBasic(clientID string, basic bool) string {
	if basic {
		return clientID
	}
	return ""
}

func containsScope(scopes, want string) bool {
	for _, s := range strings.Fields(scopes) {
		if s == want {
			return true
		}
	}
	return false
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
