package workspace

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Phases recorded in the state log.
const (
	PhasePlan         = "PLAN"
	PhaseApplySuccess = "APPLY_SUCCESS"
	PhaseApplyFailed  = "APPLY_FAILED"
)

// AppendStateLog appends a human-readable state entry to the given path,
// describing the plan or apply phase, the layout and the steps. runID ties
// together the entries written by a single invocation.
func AppendStateLog(path, runID string, plan PlanResult, phase string, runErr error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open state log %s", path)
	}
	defer f.Close()

	info, statErr := f.Stat()
	if statErr == nil && info.Size() == 0 {
		header := "# laneprep state log - each section describes a plan/apply run. Newest entries are at the bottom.\n\n"
		if _, err := f.WriteString(header); err != nil {
			return errors.Wrap(err, "write state log header")
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s %s ===\n", phase, now)
	fmt.Fprintf(&b, "run: %s\n", runID)
	fmt.Fprintf(&b, "plan: %s\n", plan.Name)
	fmt.Fprintf(&b, "workdir: %s\n", plan.Layout.WorkDir)
	fmt.Fprintf(&b, "home: %s\n", plan.Layout.Home)
	fmt.Fprintf(&b, "steps:\n")
	for _, s := range plan.Steps {
		fmt.Fprintf(&b, "- %s: %s\n", s.Operation, s.Description)
	}

	switch phase {
	case PhaseApplySuccess:
		fmt.Fprintf(&b, "result: SUCCESS\n\n")
	case PhaseApplyFailed:
		fmt.Fprintf(&b, "result: FAILED: %v\n\n", runErr)
	default:
		fmt.Fprintf(&b, "result: PENDING APPLY\n\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return errors.Wrapf(err, "write state log %s", path)
	}
	return nil
}
