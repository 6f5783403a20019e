package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/careerpath/internal/presentation/tui"
	"github.com/aretw0/careerpath/pkg/domain"
	"github.com/aretw0/careerpath/pkg/sanitize"
)

// PlanOptions configure a one-shot plan.
type PlanOptions struct {
	Message     string
	CurrentRole string
	TargetRole  string

	// SessionID continues a stored conversation when set.
	SessionID string
	JSON      bool
	Out       io.Writer
}

// planOutput is the --json document.
type planOutput struct {
	SessionID string             `json:"session_id,omitempty"`
	Result    *domain.PlanResult `json:"result"`
}

// RunPlan executes one request and writes the result to opts.Out: JSON when
// requested, glamour-rendered markdown on a terminal, plain markdown otherwise.
func RunPlan(ctx context.Context, app *App, opts PlanOptions) error {
	msg, err := sanitize.InputWithLimit(opts.Message, app.Config.Server.MaxInputSize)
	if err != nil {
		return err
	}
	req := domain.PlanRequest{
		Message:     msg,
		CurrentRole: opts.CurrentRole,
		TargetRole:  opts.TargetRole,
	}

	var (
		res       *domain.PlanResult
		sessionID string
	)
	if opts.SessionID != "" {
		out, err := app.Sessions.Continue(ctx, app.Planner, opts.SessionID, req)
		if err != nil {
			return err
		}
		res, sessionID = out.Result, out.SessionID
	} else {
		res, err = app.Planner.Plan(ctx, req)
		if err != nil {
			return err
		}
	}

	return writePlan(opts.Out, res, sessionID, opts.JSON)
}

func writePlan(w io.Writer, res *domain.PlanResult, sessionID string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(planOutput{SessionID: sessionID, Result: res})
	}

	text := res.Summary
	if tui.IsTerminal(w) {
		render, err := tui.NewRenderer(tui.Width(w))
		if err == nil {
			if rendered, err := render(text); err == nil {
				text = rendered
			}
		}
	}
	if _, err := fmt.Fprintln(w, text); err != nil {
		return err
	}
	if sessionID != "" {
		_, err := fmt.Fprintf(w, "\n>>> Session '%s' saved.\n", sessionID)
		return err
	}
	return nil
}
