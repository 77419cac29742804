// Package cli is the guestauth command line: flags, prompting, rendering and exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-guest-auth-client/internal/config"
	"github.com/jrsteele09/go-guest-auth-client/internal/errors"
	"github.com/spf13/cobra"
)

const bannerFont = "cybermedium"

// Options are the process level inputs of the CLI
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Prompter defaults to a TerminalPrompter reading In and writing to Err
	Prompter Prompter
	NoColour bool
	NoBanner bool
}

type runtimeState struct {
	opts Options
	vars config.EnvVars

	identityURL    string
	apiURL         string
	verbose        bool
	nonInteractive bool
}

func (rt *runtimeState) palette() palette {
	return palette{enabled: !rt.opts.NoColour}
}

func (rt *runtimeState) prompter() Prompter {
	if rt.nonInteractive {
		return disabledPrompter{}
	}
	if rt.opts.Prompter != nil {
		return rt.opts.Prompter
	}
	return NewTerminalPrompter(rt.opts.In, rt.opts.Err)
}

// load decodes the environment and applies the persistent flags on top
func (rt *runtimeState) load() error {
	vars, err := config.LoadEnvVars()
	if err != nil {
		return errors.Join(errors.ErrInvalidInput, err)
	}
	if rt.identityURL != "" {
		vars.IdentityURL = rt.identityURL
	}
	if rt.apiURL != "" {
		vars.APIURL = rt.apiURL
	}
	rt.nonInteractive = rt.nonInteractive || vars.NonInteractive
	rt.vars = vars
	setupLogging(rt.opts.Err, vars.GetLogLevel(), rt.verbose, rt.opts.NoColour)
	return nil
}

func (rt *runtimeState) banner() {
	if rt.opts.NoBanner {
		return
	}
	fmt.Fprintln(rt.opts.Err, figure.NewFigure(rt.vars.GetAppName(), bannerFont, true).String())
}

func newRootCommand(rt *runtimeState) *cobra.Command {
	root := &cobra.Command{
		Use:           "guestauth",
		Short:         "Diagnostic client for the guest-access OAuth grant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return rt.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&rt.identityURL, "identity-url", "", "Identity provider root URL (env GUESTAUTH_IDENTITY_URL)")
	root.PersistentFlags().StringVar(&rt.apiURL, "api-url", "", "Test API root URL (env GUESTAUTH_API_URL)")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Debug logging, including every HTTP exchange")
	root.PersistentFlags().BoolVar(&rt.nonInteractive, "non-interactive", false, "Fail instead of prompting for missing values")

	root.AddCommand(newGuestCommand(rt), newVersionCommand())
	return root
}

// Run executes the command line in args and returns the process exit code
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	rt := &runtimeState{opts: opts}
	root := newRootCommand(rt)
	root.SetArgs(args)
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(opts.Err, rt.palette().bad(Describe(err, rt.vars.GetIdentityURL())))
	}
	return ExitCode(err)
}
