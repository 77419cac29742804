package cli_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-guest-auth-client/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPrompter(t *testing.T) {
	ctx := testContext(t)
	var out bytes.Buffer
	p := cli.NewTerminalPrompter(strings.NewReader("devclient\n  devsecret  \nlast"), &out)

	v, err := p.Prompt(ctx, "client-id", false)
	require.NoError(t, err)
	assert.Equal(t, "devclient", v)

	// not a terminal, so the secret is read as a plain line
	v, err = p.Prompt(ctx, "client-secret", true)
	require.NoError(t, err)
	assert.Equal(t, "devsecret", v)

	v, err = p.Prompt(ctx, "guest identifier", false)
	require.NoError(t, err)
	assert.Equal(t, "last", v)

	_, err = p.Prompt(ctx, "more", false)
	assert.Error(t, err)

	assert.Equal(t, "client-id: client-secret: guest identifier: more: ", out.String())
}

func TestTerminalPrompter_CancelWhileWaiting(t *testing.T) {
	in, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	var out bytes.Buffer
	start := time.Now()
	_, err := cli.NewTerminalPrompter(in, &out).Prompt(ctx, "client-secret", true)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTerminalPrompter_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := cli.NewTerminalPrompter(strings.NewReader("value\n"), &out).Prompt(ctx, "client-id", false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRun_InterruptAtPrompt(t *testing.T) {
	in, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	var out, errOut bytes.Buffer
	code := cli.Run(ctx, []string{"guest", "--identity-url", "http://127.0.0.1:1/identity"}, cli.Options{
		In:       in,
		Out:      &out,
		Err:      &errOut,
		NoColour: true,
		NoBanner: true,
	})

	assert.Equal(t, cli.ExitCancelled, code)
	assert.Contains(t, errOut.String(), "client-id: ")
	assert.Contains(t, errOut.String(), "Cancelled")
}
