package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrPromptDisabled is returned when a value is missing and prompting is not allowed
var ErrPromptDisabled = errors.New("value not supplied and prompting is disabled")

// Prompter asks the operator for a missing value. Sensitive values must not be echoed.
// Prompt returns ctx.Err() as soon as ctx is done, even while waiting for input.
type Prompter interface {
	Prompt(ctx context.Context, label string, sensitive bool) (string, error)
}

// TerminalPrompter reads from in and writes prompts to out. Sensitive values are read
// without echo when in is a terminal.
type TerminalPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

type promptAnswer struct {
	value string
	err   error
}

func (p *TerminalPrompter) Prompt(ctx context.Context, label string, sensitive bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", label)

	// The read cannot be interrupted, so it runs on its own goroutine and is abandoned on cancel.
	answer := make(chan promptAnswer, 1)
	hidden := false
	restore := func() {}
	if f, ok := p.in.(*os.File); ok && sensitive && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		hidden = true
		if state, err := term.GetState(fd); err == nil {
			restore = func() { _ = term.Restore(fd, state) }
		}
		go func() {
			b, err := term.ReadPassword(fd)
			answer <- promptAnswer{value: strings.TrimSpace(string(b)), err: err}
		}()
	} else {
		go func() {
			line, err := p.reader.ReadString('\n')
			if errors.Is(err, io.EOF) && line != "" {
				err = nil
			}
			answer <- promptAnswer{value: strings.TrimSpace(line), err: err}
		}()
	}

	select {
	case <-ctx.Done():
		restore()
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case a := <-answer:
		if hidden {
			fmt.Fprintln(p.out)
		}
		if a.err != nil {
			return "", fmt.Errorf("reading %s: %w", label, a.err)
		}
		return a.value, nil
	}
}

type disabledPrompter struct{}

func (disabledPrompter) Prompt(_ context.Context, label string, _ bool) (string, error) {
	return "", fmt.Errorf("%s: %w", label, ErrPromptDisabled)
}

// resolve returns the first non-empty value, prompting when there is none
func resolve(ctx context.Context, p Prompter, label string, sensitive bool, values ...string) (string, error) {
	if v := firstNonEmpty(values...); v != "" {
		return v, nil
	}
	return p.Prompt(ctx, label, sensitive)
}
