// Package confirm provides the confirmation collaborator consulted before an
// existing settings file is overwritten.
//
// Only an explicit affirmative answer allows an overwrite. Anything else,
// including end of input, is a decline.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Func adapts an ordinary function to the Confirmer interface.
type Func func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f(ctx, prompt).
func (f Func) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always confirms every prompt.
var Always Confirmer = Func(func(context.Context, string) (bool, error) { return true, nil })

// Never declines every prompt.
var Never Confirmer = Func(func(context.Context, string) (bool, error) { return false, nil })

// Console asks on a text stream, typically os.Stdin and os.Stdout.
type Console struct {
	In  io.Reader
	Out io.Writer
}

// NewConsole creates a Console reading answers from in and writing prompts to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

// Confirm writes the prompt and reads a single line. "y" and "yes" are
// affirmative, case-insensitive.
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprint(c.Out, prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return IsAffirmative(line), nil
}

// IsAffirmative reports whether answer is an explicit yes.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
