// Package headless answers utterances without the TUI, for scripts and pipes.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeanpaul/tvyn/internal/session"
)

// Handler is the part of a session the runner needs.
type Handler interface {
	Handle(ctx context.Context, utterance string) (session.Turn, error)
}

// Run answers one utterance. The reply goes to out with a trailing newline.
func Run(ctx context.Context, h Handler, utterance string, out io.Writer) error {
	turn, err := h.Handle(ctx, utterance)
	if err != nil {
		return err
	}
	return writeReply(out, turn.Bot)
}

// RunLines answers every non-blank line read from in until EOF or ctx is done.
// Replies go to out; a turn that fails is reported to errOut and the loop
// moves on. The first failure is returned once input is exhausted.
func RunLines(ctx context.Context, h Handler, in io.Reader, out, errOut io.Writer) error {
	sc := bufio.NewScanner(in)
	var first error
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		turn, err := h.Handle(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(errOut, "[Error: %s]\n", err)
			if first == nil {
				first = err
			}
			continue
		}
		if err := writeReply(out, turn.Bot); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return first
}

func writeReply(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
