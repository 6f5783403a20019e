package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/sanitize"
)

// ChatOptions configure an interactive conversation.
type ChatOptions struct {
	SessionID   string
	CurrentRole string
	TargetRole  string
	In          io.Reader
	Out         io.Writer
}

type inputResult struct {
	text string
	err  error
}

// pump reads lines in the background so a blocked read never delays
// cancellation. The channel closes on EOF, a read error or ctx end.
func pump(ctx context.Context, r io.Reader) <-chan inputResult {
	ch := make(chan inputResult)
	send := func(res inputResult) bool {
		select {
		case ch <- res:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(ch)
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			if text != "" && !send(inputResult{text: text}) {
				return
			}
			if err != nil {
				if err != io.EOF {
					send(inputResult{err: err})
				}
				return
			}
		}
	}()
	return ch
}

// RunChat reads messages line by line and answers each one as a turn of the
// same session, so follow-ups refine the plan built so far. It returns when
// input ends, the user types exit or quit, or ctx is cancelled.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	sessionID := opts.SessionID
	roles := domain.PlanRequest{CurrentRole: opts.CurrentRole, TargetRole: opts.TargetRole}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	input := pump(readCtx, opts.In)

	fmt.Fprintln(opts.Out, "Describe your career goal. Type 'exit' to quit.")
	for {
		fmt.Fprint(opts.Out, "> ")

		var line inputResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out)
			return nil
		case res, ok := <-input:
			if !ok {
				fmt.Fprintln(opts.Out)
				return nil
			}
			line = res
		}
		if line.err != nil {
			return line.err
		}

		text := strings.TrimSpace(line.text)
		switch text {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(opts.Out, "Bye!")
			return nil
		}

		msg, err := sanitize.InputWithLimit(text, app.Config.Server.MaxInputSize)
		if err != nil {
			fmt.Fprintf(opts.Out, "Invalid input: %v\n", err)
			continue
		}

		req := roles
		req.Message = msg
		out, err := app.Sessions.Continue(ctx, app.Planner, sessionID, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(opts.Out, "I encountered an error while processing your request: %v\n", err)
			continue
		}
		sessionID = out.SessionID
		// Roles are remembered by the session after the first turn.
		roles = domain.PlanRequest{}

		if err := writePlan(opts.Out, out.Result, "", false); err != nil {
			return err
		}
	}
}
