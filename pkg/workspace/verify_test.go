package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerify_ReportsEveryProblem(t *testing.T) {
	useTestLogger(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "makefile"), "all:\n")
	mustWrite(t, filepath.Join(dir, "src"), "not a dir")
	mustWrite(t, filepath.Join(dir, ".bashrc"), "alias x=y\n")
	if err := os.MkdirAll(filepath.Join(dir, "OpenLane-flow"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	plan := PlanResult{Name: "flow", Expect: []Expectation{
		{Path: filepath.Join(dir, "makefile"), Kind: ExpectFile},
		{Path: filepath.Join(dir, "config.json"), Kind: ExpectFile},
		{Path: filepath.Join(dir, "src"), Kind: ExpectDir},
		{Path: filepath.Join(dir, "OpenLane-flow"), Kind: ExpectAbsent},
		{Path: filepath.Join(dir, ".bashrc"), Kind: ExpectFile, Contains: PDKRootExport},
	}}

	err := Verify(plan)
	if err == nil {
		t.Fatalf("expected verification failure")
	}
	msg := err.Error()
	for _, want := range []string{
		"required file " + filepath.Join(dir, "config.json") + " is missing",
		"expected directory but found file at " + filepath.Join(dir, "src"),
		filepath.Join(dir, "OpenLane-flow") + " should have been removed",
		"does not contain",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, filepath.Join(dir, "makefile")) {
		t.Fatalf("makefile is fine and should not be reported:\n%s", msg)
	}
}

func TestVerify_Passes(t *testing.T) {
	useTestLogger(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".bashrc"), PDKRootExport+"\n")

	plan := PlanResult{Name: "ok", Expect: []Expectation{
		{Path: dir, Kind: ExpectDir},
		{Path: filepath.Join(dir, ".bashrc"), Kind: ExpectFile, Contains: PDKRootExport},
		{Path: filepath.Join(dir, "gone"), Kind: ExpectAbsent},
	}}
	if err := Verify(plan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
