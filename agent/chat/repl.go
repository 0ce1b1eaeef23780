// Package chat runs the interactive terminal loop.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type Responder interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

// Resetter is optionally implemented by a Responder to clear history.
type Resetter interface {
	Reset(ctx context.Context, sessionID string) error
}

type REPL struct {
	Responder Responder
	SessionID string

	// Describe renders a turn error. Defaults to err.Error().
	Describe func(error) string
}

var exitWords = map[string]bool{"exit": true, "quit": true, "q": true}

const resetCommand = "/reset"

// Run reads lines from in until EOF, an exit word, or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	describe := r.Describe
	if describe == nil {
		describe = func(err error) string { return err.Error() }
	}

	fmt.Fprintln(out, "Welcome to the Interactive MCP Chat!")
	fmt.Fprintln(out, "Type 'exit', 'quit', or 'q' to end the session.")

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case exitWords[strings.ToLower(line)]:
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case line == resetCommand:
			r.reset(ctx, out)
			continue
		}

		reply, err := r.Responder.HandleMessage(ctx, r.SessionID, line)
		if err != nil {
			fmt.Fprintf(out, "\nError: %s\n", describe(err))
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", reply)
	}
}

func (r *REPL) reset(ctx context.Context, out io.Writer) {
	resetter, ok := r.Responder.(Resetter)
	if !ok {
		fmt.Fprintln(out, "\nHistory reset is not supported.")
		return
	}
	if err := resetter.Reset(ctx, r.SessionID); err != nil {
		fmt.Fprintf(out, "\nError: %s\n", err)
		return
	}
	fmt.Fprintln(out, "\nConversation history cleared.")
}
