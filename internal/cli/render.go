package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jrsteele09/go-guest-auth-client/api"
	"github.com/jrsteele09/go-guest-auth-client/auth"
	"github.com/jrsteele09/go-guest-auth-client/oauthmodel"
	"github.com/jrsteele09/go-guest-auth-client/token/jwt"
)

var callHeadings = map[api.EndpointID]string{
	api.EchoClaims: "Calling echo API:",
	api.PlayerInfo: "Checking role:",
}

type renderer struct {
	w io.Writer
	p palette
}

func (r renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// report writes whatever the run got as far as producing
func (r renderer) report(rep *auth.Report) {
	r.printf("%s %s\n", r.p.meta("Identity:"), rep.RootURL)
	r.printf("%s %s\n", r.p.meta("Correlation ID:"), rep.CorrelationID)

	if doc := rep.Document; doc != nil && doc.TokenEndpoint != "" {
		r.printf("%s %s\n", r.p.meta("Token endpoint:"), doc.TokenEndpoint)
		if len(doc.GrantTypesSupported) > 0 && !doc.SupportsGrant(string(oauthmodel.GuestAccessGrant)) {
			r.printf("%s\n", r.p.warn("Provider does not advertise the guest-access grant"))
		}
	}
	r.printf("\n")

	if rep.Token != nil {
		r.printf("%s\n", r.p.heading("Token response:"))
		r.printf("%s\n\n\n", prettyJSON(rep.Token.RawJSON))
	}

	if rep.Claims != nil {
		r.claims(rep.Claims)
	}

	for _, call := range rep.Calls {
		heading, ok := callHeadings[call.Endpoint]
		if !ok {
			heading = fmt.Sprintf("Calling %s:", call.Endpoint)
		}
		r.printf("%s\n", r.p.heading(heading))
		switch {
		case call.Success:
			r.printf("%s\n", r.p.ok(fmt.Sprintf("HTTP %d", call.StatusCode)))
		case call.StatusCode != 0:
			r.printf("%s\n", r.p.bad(fmt.Sprintf("HTTP %d", call.StatusCode)))
		}
		r.printf("%s\n", prettyJSON(call.Body))
		if call.Truncated {
			r.printf("%s\n", r.p.warn(fmt.Sprintf("[body truncated after %d bytes]", len(call.Body))))
		}
		r.printf("\n\n")
	}

	r.printf("%s %s\n", r.p.meta("Result:"), r.p.state(rep.State))
}

func (r renderer) claims(c *jwt.Claims) {
	r.printf("%s\n", r.p.heading("Access token claims (unverified):"))
	rows := [][2]string{
		{"iss", c.Issuer},
		{"sub", c.Subject},
		{"aud", strings.Join(c.Audience, " ")},
		{"client_id", c.ClientID},
		{"scope", c.Scope},
		{"guest_identifier", c.GuestIdentifier},
		{"role", strings.Join(c.Roles, " ")},
		{"jti", c.ID},
	}
	if c.IssuedAt != nil {
		rows = append(rows, [2]string{"iat", c.IssuedAt.Format(time.RFC3339)})
	}
	if c.ExpiresAt != nil {
		exp := c.ExpiresAt.Format(time.RFC3339)
		if c.Expired() {
			exp = r.p.bad(exp + " (expired)")
		}
		rows = append(rows, [2]string{"exp", exp})
	}
	for _, k := range c.OtherKeys() {
		rows = append(rows, [2]string{k, fmt.Sprint(c.Other[k])})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		r.printf("  %-18s %s\n", row[0]+":", r.p.value(row[1]))
	}
	r.printf("\n\n")
}

// prettyJSON indents body when it is JSON and returns it unchanged otherwise
func prettyJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}
