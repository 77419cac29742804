package cli

import "github.com/jrsteele09/go-guest-auth-client/auth"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray
	Magenta = "\033[35m"

	RedInverse   = "\033[7;31m"
	GreenInverse = "\033[7;32m"

	ResetColor = "\033[0m" // Reset to default color
)

var stateColors = map[auth.State]string{
	auth.StateDone:                    GreenInverse,
	auth.StateDiscoveryFailed:         RedInverse,
	auth.StateExchangeTransportFailed: RedInverse,
	auth.StateGrantDenied:             RedInverse,
}

// palette applies colours only when enabled
type palette struct {
	enabled bool
}

func (p palette) paint(colour, s string) string {
	if !p.enabled || colour == "" {
		return s
	}
	return colour + s + ResetColor
}

func (p palette) heading(s string) string { return p.paint(Cyan, s) }
func (p palette) ok(s string) string      { return p.paint(Green, s) }
func (p palette) bad(s string) string     { return p.paint(Red, s) }
func (p palette) warn(s string) string    { return p.paint(Yellow, s) }
func (p palette) meta(s string) string    { return p.paint(Gray, s) }
func (p palette) value(s string) string   { return p.paint(Magenta, s) }

func (p palette) state(s auth.State) string {
	return p.paint(stateColors[s], " "+string(s)+" ")
}
