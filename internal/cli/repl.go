// Package cli is the terminal front end: one line in, one answer out.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"luna_assistant/internal/model"
)

// Assistant is the subset of the router the REPL drives
type Assistant interface {
	Handle(ctx context.Context, sessionID, utterance string) (*model.Result, error)
	Preferences(ctx context.Context, sessionID string) (model.PreferenceSet, error)
	ClearPreferences(ctx context.Context, sessionID string) error
	ClearHistory(ctx context.Context, sessionID string) error
	CatalogText() string
}

const banner = `Luna, your supermarket assistant
Commands:
  /likes             - Show your likes and dislikes
  /catalog           - List available items
  /clear-preferences - Forget your likes and dislikes
  /clear-history     - Forget the chat so far
  /quit              - Exit
`

// REPL reads utterances from in and writes answers to out
type REPL struct {
	assistant Assistant
	sessionID string
	in        *bufio.Reader
	out       io.Writer
}

func NewREPL(assistant Assistant, sessionID string, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		assistant: assistant,
		sessionID: sessionID,
		in:        bufio.NewReader(in),
		out:       out,
	}
}

// Run loops until /quit, end of input or ctx is done
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprint(r.out, banner)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.out, ">> ")
		line, err := r.in.ReadString('\n')
		input := strings.TrimSpace(line)

		if input != "" {
			if quit := r.dispatch(ctx, input); quit {
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}

func (r *REPL) dispatch(ctx context.Context, input string) (quit bool) {
	switch input {
	case "/quit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true

	case "/likes":
		prefs, err := r.assistant.Preferences(ctx, r.sessionID)
		if err != nil && !errors.Is(err, model.ErrSessionNotFound) {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Likes: %s\n", listOrNone(prefs.Likes))
		fmt.Fprintf(r.out, "Dislikes: %s\n\n", listOrNone(prefs.Dislikes))

	case "/catalog":
		fmt.Fprintf(r.out, "%s\n\n", r.assistant.CatalogText())

	case "/clear-preferences":
		if err := r.assistant.ClearPreferences(ctx, r.sessionID); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, "Preferences cleared!")

	case "/clear-history":
		if err := r.assistant.ClearHistory(ctx, r.sessionID); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, "Chat memory cleared!")

	default:
		result, err := r.assistant.Handle(ctx, r.sessionID, input)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Luna: %s\n\n", result.Text)
	}
	return false
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None yet"
	}
	return strings.Join(items, ", ")
}
