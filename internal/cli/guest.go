package cli

import (
	"context"

	"github.com/jrsteele09/go-guest-auth-client/auth"
	"github.com/jrsteele09/go-guest-auth-client/internal/config"
	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/spf13/cobra"
)

type guestFlags struct {
	clientID        string
	clientSecret    string
	guestID         string
	authStyle       string
	skipIssuerCheck bool
	sequential      bool
	allowEmptyGuest bool
}

func newGuestCommand(rt *runtimeState) *cobra.Command {
	f := &guestFlags{}
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Obtain a token with the guest-access grant and call the test APIs with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runGuest(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.clientID, "client-id", "", "OAuth client id (env GUESTAUTH_CLIENT_ID)")
	cmd.Flags().StringVar(&f.clientSecret, "client-secret", "", "OAuth client secret (env GUESTAUTH_CLIENT_SECRET)")
	cmd.Flags().StringVar(&f.guestID, "guest-id", "", "Guest identifier (env GUESTAUTH_GUEST_ID)")
	cmd.Flags().StringVar(&f.authStyle, "auth-style", "", "Client authentication: header or params (env GUESTAUTH_AUTH_STYLE)")
	cmd.Flags().BoolVar(&f.skipIssuerCheck, "skip-issuer-check", false, "Accept a discovery document whose issuer differs from the identity URL")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "Call the test APIs one after the other")
	cmd.Flags().BoolVar(&f.allowEmptyGuest, "allow-empty-guest-id", false, "Send an empty guest identifier to see how the provider rejects it")
	return cmd
}

func (rt *runtimeState) runGuest(cmd *cobra.Command, f *guestFlags) error {
	vars := rt.vars
	if f.authStyle != "" {
		vars.AuthStyle = f.authStyle
	}
	vars.SkipIssuerCheck = vars.SkipIssuerCheck || f.skipIssuerCheck
	vars.Sequential = vars.Sequential || f.sequential
	vars.AllowEmptyGuest = vars.AllowEmptyGuest || f.allowEmptyGuest

	creds, err := rt.credentials(cmd.Context(), f, vars)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		return errors.Join(errors.ErrInvalidInput, err)
	}

	flow, err := auth.NewGuestFlow(config.New(vars))
	if err != nil {
		return err
	}

	rt.banner()
	report, err := flow.Run(cmd.Context(), creds)
	renderer{w: cmd.OutOrStdout(), p: rt.palette()}.report(report)
	return err
}

// credentials resolves each value from flag, then environment, then a prompt
func (rt *runtimeState) credentials(ctx context.Context, f *guestFlags, vars config.EnvVars) (auth.Credentials, error) {
	p := rt.prompter()
	var (
		creds auth.Credentials
		err   error
	)
	if creds.ClientID, err = resolve(ctx, p, "client-id", false, f.clientID, vars.ClientID); err != nil {
		return creds, err
	}
	if creds.ClientSecret, err = resolve(ctx, p, "client-secret", true, f.clientSecret, vars.ClientSecret); err != nil {
		return creds, err
	}
	if vars.AllowEmptyGuest {
		creds.GuestIdentifier = firstNonEmpty(f.guestID, vars.GuestIdentifier)
		return creds, nil
	}
	if creds.GuestIdentifier, err = resolve(ctx, p, "guest identifier", false, f.guestID, vars.GuestIdentifier); err != nil {
		return creds, err
	}
	return creds, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
