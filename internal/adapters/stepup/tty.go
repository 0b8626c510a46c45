package stepup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kekayan/runs-cli/internal/ports"
	"golang.org/x/term"
)

var ErrDeclined = errors.New("step-up challenge declined")

// TTY is a proof-of-presence check at the controlling terminal: available
// only when stdin is a terminal, satisfied by an explicit confirmation.
type TTY struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

var _ ports.StepUpAuthenticator = (*TTY)(nil)

func NewTTY() *TTY {
	return &TTY{
		in:         os.Stdin,
		out:        os.Stderr,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

func (t *TTY) Available() bool {
	return t.isTerminal()
}

// Challenge blocks until the user confirms, declines, or the context ends.
func (t *TTY) Challenge(ctx context.Context, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(t.out, "%s\nConfirm to continue [y/N]: ", reason)

	type answer struct {
		line string
		err  error
	}
	answerCh := make(chan answer, 1)

	go func() {
		line, err := bufio.NewReader(t.in).ReadString('\n')
		answerCh <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case a := <-answerCh:
		if a.err != nil && a.line == "" {
			return fmt.Errorf("read confirmation: %w", a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return nil
		}
		return ErrDeclined
	}
}
