package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, errors.Wrapf(nil, "context %d", 1))
	})

	t.Run("keeps chain", func(t *testing.T) {
		err := errors.Wrapf(errors.ErrGrantTransport, "posting to %s", "https://idp/token")
		require.True(t, errors.Is(err, errors.ErrGrantTransport))
		require.Equal(t, "posting to https://idp/token: token endpoint unreachable", err.Error())
	})
}

func TestJoin(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")

	err := errors.Join(errors.ErrDiscoveryUnreachable, cause)
	require.True(t, errors.Is(err, errors.ErrDiscoveryUnreachable))
	require.True(t, errors.Is(err, cause))
	require.False(t, errors.Is(err, errors.ErrDiscoveryMisconfigured))

	require.Equal(t, errors.ErrGrantDenied, errors.Join(errors.ErrGrantDenied, nil))
}

func TestJoin_WithWrappedCause(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := errors.Join(errors.ErrGrantTransport, errors.Wrapf(cause, "requesting %s", "https://idp/token"))
	require.True(t, errors.Is(err, errors.ErrGrantTransport))
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "token endpoint unreachable: requesting https://idp/token: connection refused", err.Error())
}
