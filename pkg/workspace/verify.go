package workspace

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Verify checks every expectation recorded in the plan and reports all
// problems at once. It is meant to run after Apply, but can also be used on
// its own to inspect an existing workspace.
func Verify(plan PlanResult) error {
	var problems []string
	for _, e := range plan.Expect {
		if msg := checkExpectation(e); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) == 0 {
		logSink.Debugw("verification passed", "plan", plan.Name, "checks", len(plan.Expect))
		return nil
	}
	return errors.Errorf("verification of %s failed:\n  - %s", plan.Name, strings.Join(problems, "\n  - "))
}

func checkExpectation(e Expectation) string {
	st, err := os.Stat(e.Path)
	if e.Kind == ExpectAbsent {
		if err == nil {
			return fmt.Sprintf("%s should have been removed", e.Path)
		}
		if !os.IsNotExist(err) {
			return fmt.Sprintf("%s: %v", e.Path, err)
		}
		return ""
	}

	if err != nil {
		return fmt.Sprintf("required %s %s is missing", e.Kind, e.Path)
	}
	if e.Kind == ExpectDir && !st.IsDir() {
		return fmt.Sprintf("expected directory but found file at %s", e.Path)
	}
	if e.Kind == ExpectFile && st.IsDir() {
		return fmt.Sprintf("expected file but found directory at %s", e.Path)
	}
	if e.Contains != "" {
		ok, err := fileHasLine(e.Path, e.Contains)
		if err != nil {
			return fmt.Sprintf("%s: %v", e.Path, err)
		}
		if !ok {
			return fmt.Sprintf("%s does not contain %q", e.Path, e.Contains)
		}
	}
	return ""
}

func fileHasLine(path, line string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == line {
			return true, nil
		}
	}
	return false, sc.Err()
}
