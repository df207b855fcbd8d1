package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"clockify-button/internal/domain"
	"clockify-button/internal/metrics"
	"clockify-button/internal/ports"
	"clockify-button/internal/resolve"
	"clockify-button/internal/validate"
)

// tag prefixes every message shown to the user.
const tag = "[Clockify] "

// State is where a toggle run ended up.
type State string

const (
	StateIdle         State = "idle"
	StateReady        State = "ready"
	StateTimerRunning State = "timer_running"
	StateTimerStopped State = "timer_stopped"
	StateEntryCreated State = "entry_created"
	StateDeclined     State = "declined"  // timer running, user kept it
	StateCancelled    State = "cancelled" // no timer, user gave no title
	StateFailed       State = "failed"
	StateBusy         State = "busy"
)

// Outcome summarizes one toggle run.
type Outcome struct {
	RunID     string
	State     State
	Workspace domain.Workspace
	Project   domain.Project
	Title     string
	// Reason explains a StateFailed outcome that was reported to the user
	// rather than returned as an error (configuration or resolution).
	Reason error
}

// Options carries the configured workspace and project (name or id).
type Options struct {
	Workspace string
	Project   string
}

// TimerUseCase starts a new time entry for the configured project, or stops
// the running one.
type TimerUseCase struct {
	Log    *slog.Logger
	Host   ports.Host
	Guard  ports.RunGuard
	Client func(ctx context.Context) (ports.Clockify, error)
}

// Toggle runs the button once. Terminal states are reported to the host; an
// error is returned only when a call failed (credential, transport, network).
func (uc *TimerUseCase) Toggle(ctx context.Context, opts Options) (out Outcome, err error) {
	if uc.Host == nil || uc.Guard == nil || uc.Client == nil {
		return out, errors.New("usecase not initialized: missing dependencies")
	}
	out = Outcome{RunID: uuid.NewString(), State: StateIdle}
	log := uc.Log.With(slog.String("run_id", out.RunID))

	release, err := uc.Guard.Acquire(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			log.Info("button is busy, ignoring trigger")
			out.State = StateBusy
			metrics.ButtonRunsTotal.WithLabelValues(string(out.State)).Inc()
			return out, nil
		}
		return out, err
	}
	defer release()
	defer func() {
		metrics.ButtonRunsTotal.WithLabelValues(string(out.State)).Inc()
		log.Info("button run finished", slog.String("state", string(out.State)))
	}()

	ws, project := strings.TrimSpace(opts.Workspace), strings.TrimSpace(opts.Project)
	if ws == "" {
		uc.Host.Warn(tag + "Please define the NAME or ID of the WORKSPACE (CLOCKIFY_WORKSPACE or --workspace)!")
		return failed(out, fmt.Errorf("workspace: %w", domain.ErrMissingConfig)), nil
	}
	if project == "" {
		uc.Host.Warn(tag + "Please define the NAME or ID of the PROJECT (CLOCKIFY_PROJECT or --project)!")
		return failed(out, fmt.Errorf("project: %w", domain.ErrMissingConfig)), nil
	}

	client, err := uc.Client(ctx)
	if err != nil {
		out.State = StateFailed
		return out, err
	}

	workspaces, err := client.ListWorkspaces(ctx)
	if err != nil {
		return uc.fail(out, err)
	}
	out.Workspace, err = resolve.One(workspaces, ws)
	if err != nil {
		uc.Host.Warn(fmt.Sprintf("%sWORKSPACE '%s' %s", tag, ws, resolutionProblem(err)))
		return failed(out, err), nil
	}

	projects, err := client.ListProjects(ctx, out.Workspace.ID)
	if err != nil {
		return uc.fail(out, err)
	}
	out.Project, err = resolve.One(projects, project)
	if err != nil {
		uc.Host.Warn(fmt.Sprintf("%sPROJECT '%s' %s", tag, project, resolutionProblem(err)))
		return failed(out, err), nil
	}
	out.State = StateReady
	log.Debug("resolved workspace and project",
		slog.String("workspace_id", out.Workspace.ID),
		slog.String("project_id", out.Project.ID),
	)

	running, err := client.ListTimeEntries(ctx, out.Workspace.ID, true)
	if err != nil {
		return uc.fail(out, err)
	}
	if len(running) > 0 {
		out.State = StateTimerRunning
		return uc.stop(ctx, client, out)
	}
	return uc.start(ctx, client, out)
}

func (uc *TimerUseCase) stop(ctx context.Context, client ports.Clockify, out Outcome) (Outcome, error) {
	yes, err := uc.Host.Confirm(ctx,
		fmt.Sprintf("%sDo you want to STOP the TIME ENTRY for project '%s'?", tag, out.Project.Name),
		"Yes", "HELL, NO!",
	)
	if err != nil {
		return uc.fail(out, err)
	}
	if !yes {
		out.State = StateDeclined
		return out, nil
	}

	ok, err := client.StopRunningTimeEntry(ctx, out.Workspace.ID)
	if err != nil {
		return uc.fail(out, err)
	}
	if !ok {
		uc.Host.Warn(fmt.Sprintf("%sTIME ENTRY of project '%s' could NOT be STOPPED!", tag, out.Project.Name))
		out.State = StateFailed
		return out, nil
	}
	uc.Host.Info(fmt.Sprintf("%sTIME ENTRY of project '%s' has been STOPPED.", tag, out.Project.Name))
	out.State = StateTimerStopped
	return out, nil
}

func (uc *TimerUseCase) start(ctx context.Context, client ports.Clockify, out Outcome) (Outcome, error) {
	entries, err := client.ListTimeEntries(ctx, out.Workspace.ID, false)
	if err != nil {
		return uc.fail(out, err)
	}
	var initial string
	if last, ok := domain.LatestClosed(entries); ok {
		initial = last.Description
	}

	title, ok, err := uc.Host.Input(ctx, ports.InputRequest{
		Prompt:   "Enter The Title Of The New Time Entry",
		Value:    initial,
		Validate: validate.Title,
	})
	if err != nil {
		return uc.fail(out, err)
	}
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		out.State = StateCancelled
		return out, nil
	}
	out.Title = title

	created, err := client.CreateTimeEntry(ctx, out.Workspace.ID, out.Project.ID, title)
	if err != nil {
		return uc.fail(out, err)
	}
	if !created {
		uc.Host.Warn(fmt.Sprintf("%sTIME ENTRY '%s' could NOT BE CREATED for project '%s'!", tag, title, out.Project.Name))
		out.State = StateFailed
		return out, nil
	}
	uc.Host.Info(fmt.Sprintf("%sTIME ENTRY '%s' has been CREATED for project '%s'.", tag, title, out.Project.Name))
	out.State = StateEntryCreated
	return out, nil
}

// fail reports err to the user and ends the run.
func (uc *TimerUseCase) fail(out Outcome, err error) (Outcome, error) {
	uc.Host.Error(err.Error())
	out.State = StateFailed
	return out, err
}

func failed(out Outcome, reason error) Outcome {
	out.State = StateFailed
	out.Reason = reason
	return out
}

func resolutionProblem(err error) string {
	if errors.Is(err, domain.ErrAmbiguous) {
		return "is AMBIGUOUS, use its ID instead!"
	}
	return "does not exist!"
}
