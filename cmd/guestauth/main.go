package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrsteele09/go-guest-auth-client/internal/cli"
	"github.com/jrsteele09/go-guest-auth-client/internal/config"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Options{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		NoColour: config.GetEnv("NO_COLOR", "") != "" || !term.IsTerminal(int(os.Stdout.Fd())),
	})
	stop()
	os.Exit(code)
}
