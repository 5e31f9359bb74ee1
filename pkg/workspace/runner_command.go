package workspace

import (
	"context"
	"os"

	"github.com/pkg/errors"
)

// CommandRunner executes ExecutionStep values against the local filesystem
// and spawns git and make for the external steps. Every action is logged.
type CommandRunner struct{}

func NewCommandRunner() *CommandRunner {
	return &CommandRunner{}
}

// Preflight checks sources and conflicts on disk before the first step.
func (r *CommandRunner) Preflight(plan PlanResult) error {
	return Preflight(plan)
}

func (r *CommandRunner) Run(ctx context.Context, step ExecutionStep) error {
	switch step.Operation {
	case OpMove:
		logSink.Infow("move", "src", step.Source, "dst", step.Destination)
		return movePath(step.Source, step.Destination, step.Replace)
	case OpCopy:
		logSink.Infow("copy", "src", step.Source, "dst", step.Destination)
		return copyPath(step.Source, step.Destination)
	case OpRemove:
		logSink.Infow("remove", "dst", step.Destination)
		return removePath(step.Destination)
	case OpMkdir:
		logSink.Infow("mkdir", "dst", step.Destination)
		return errors.Wrapf(os.MkdirAll(step.Destination, 0o755), "mkdir %s", step.Destination)
	case OpAppendEnv:
		return r.runAppendEnv(step)
	case OpGitClone:
		return r.runGitClone(ctx, step)
	case OpMake:
		return r.runCommand(ctx, step)
	default:
		return errors.Errorf("unknown operation %q for step: %s", step.Operation, step.Description)
	}
}

func (r *CommandRunner) runAppendEnv(step ExecutionStep) error {
	changed, err := AppendEnvLine(step.Destination, step.Line)
	if err != nil {
		return err
	}
	if changed {
		logSink.Infow("appended environment line", "dst", step.Destination, "line", step.Line)
	} else {
		logSink.Infow("environment line already present", "dst", step.Destination, "line", step.Line)
	}
	return nil
}

// runGitClone leaves an existing checkout alone so that setup can be re-run.
func (r *CommandRunner) runGitClone(ctx context.Context, step ExecutionStep) error {
	if step.Destination != "" {
		if _, err := os.Stat(step.Destination); err == nil {
			logSink.Infow("clone target already present, skipping", "dst", step.Destination)
			return nil
		}
	}
	if step.Dir != "" {
		if err := os.MkdirAll(step.Dir, 0o755); err != nil {
			return errors.Wrapf(err, "mkdir %s", step.Dir)
		}
	}
	return r.runCommand(ctx, step)
}

func (r *CommandRunner) runCommand(ctx context.Context, step ExecutionStep) error {
	if len(step.Args) == 0 {
		return errors.Errorf("%s: no command given", step.Operation)
	}
	return commandExec(ctx, step.Dir, step.Env, step.Args)
}
