package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jrsteele09/go-guest-auth-client/api"
	"github.com/jrsteele09/go-guest-auth-client/auth"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Report_TruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	renderer{w: &buf}.report(&auth.Report{
		RootURL: "http://localhost:5000/identity",
		State:   auth.StateDone,
		Calls: []api.CallResult{
			{Endpoint: api.EchoClaims, StatusCode: 200, Success: true, Body: strings.Repeat("a", 16), Truncated: true},
			{Endpoint: api.PlayerInfo, StatusCode: 200, Success: true, Body: `{"isPlayer":true}`},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "[body truncated after 16 bytes]")
	assert.Equal(t, 1, strings.Count(out, "truncated"))
	assert.Contains(t, out, "Checking role:")
}
