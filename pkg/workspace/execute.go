package workspace

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Operations understood by runners.
const (
	OpMove      = "move"
	OpCopy      = "copy"
	OpRemove    = "remove"
	OpMkdir     = "mkdir"
	OpAppendEnv = "append-env"
	OpGitClone  = "git-clone"
	OpMake      = "make"
)

// ExecutionStep is a high-level description of a concrete action that will be
// taken to prepare the workspace. It is both structured (for automation) and
// has a human-readable description.
type ExecutionStep struct {
	Operation   string
	Source      string
	Destination string
	// Dir is the working directory of external commands.
	Dir  string
	Args []string
	Env  []string
	// Line is the text appended by append-env steps.
	Line string
	// Replace removes an existing destination before a move.
	Replace     bool
	Description string
}

// Path returns the most relevant path of the step, used in error messages.
func (s ExecutionStep) Path() string {
	switch {
	case s.Destination != "":
		return s.Destination
	case s.Dir != "":
		return s.Dir
	default:
		return s.Source
	}
}

// Runner abstracts how execution steps are performed. CommandRunner touches
// the filesystem and spawns processes, NoopRunner only logs.
type Runner interface {
	Run(ctx context.Context, step ExecutionStep) error
}

// Preflighter is implemented by runners that can validate a whole plan
// before its first step runs.
type Preflighter interface {
	Preflight(plan PlanResult) error
}

// ApplyOptions tunes how Apply reacts to failing steps.
type ApplyOptions struct {
	// KeepGoing logs a failing step and continues with the next one. The
	// combined error is returned once every step has been attempted. The
	// runner's preflight check is skipped.
	KeepGoing bool
}

// Apply runs the steps of the plan using the given runner. If a step fails it
// returns an error that includes contextual information about which step
// failed, unless KeepGoing is set. Runners implementing Preflighter get to
// reject the plan before anything is changed.
func Apply(ctx context.Context, plan PlanResult, runner Runner, opts ApplyOptions) error {
	if pf, ok := runner.(Preflighter); ok && !opts.KeepGoing {
		if err := pf.Preflight(plan); err != nil {
			return err
		}
	}

	var errs error
	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, errors.Wrap(err, "apply interrupted"))
		}
		logSink.Debugw("running step", "n", i+1, "op", step.Operation, "desc", step.Description)

		if err := runner.Run(ctx, step); err != nil {
			err = errors.Wrapf(err, "apply failed on operation %q (%s)", step.Operation, step.Path())
			if !opts.KeepGoing {
				return err
			}
			logSink.Warnw("step failed, continuing", "op", step.Operation, "error", err.Error())
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// NoopRunner logs steps but does not touch the filesystem or spawn anything.
// Useful for CI or dry validation of plans.
type NoopRunner struct{}

func NewNoopRunner() *NoopRunner { return &NoopRunner{} }

func (n *NoopRunner) Run(_ context.Context, step ExecutionStep) error {
	logSink.Infow(fmt.Sprintf("NOOP: %s", step.Description), "op", step.Operation)
	return nil
}
