package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCommandRunner_GitCloneSkipsExistingCheckout(t *testing.T) {
	useTestLogger(t)
	calls := fakeExec(t, nil)
	dir := t.TempDir()
	target := filepath.Join(dir, OpenLaneDirName)
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	step := ExecutionStep{
		Operation:   OpGitClone,
		Destination: target,
		Dir:         dir,
		Args:        []string{"git", "clone", DefaultOpenLaneURL, target},
	}
	if err := NewCommandRunner().Run(context.Background(), step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("expected no git invocation, got %v", *calls)
	}
}

func TestCommandRunner_MakeReceivesDirAndEnv(t *testing.T) {
	useTestLogger(t)
	calls := fakeExec(t, nil)

	step := ExecutionStep{
		Operation: OpMake,
		Dir:       "/work/OpenLane",
		Args:      []string{"make", "test"},
		Env:       []string{"PDK_ROOT=/home/ta/pdk"},
	}
	if err := NewCommandRunner().Run(context.Background(), step); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []execCall{{dir: "/work/OpenLane", env: []string{"PDK_ROOT=/home/ta/pdk"}, argv: []string{"make", "test"}}}
	if !reflect.DeepEqual(*calls, want) {
		t.Fatalf("calls = %+v, want %+v", *calls, want)
	}
}

func TestCommandRunner_CommandFailurePropagates(t *testing.T) {
	useTestLogger(t)
	fakeExec(t, fmt.Errorf("exit status 2"))

	step := ExecutionStep{Operation: OpMake, Dir: "/x", Args: []string{"make", "test"}}
	err := NewCommandRunner().Run(context.Background(), step)
	if err == nil || !strings.Contains(err.Error(), "exit status 2") {
		t.Fatalf("expected command failure, got %v", err)
	}
}

func TestCommandRunner_UnknownOperation(t *testing.T) {
	useTestLogger(t)
	err := NewCommandRunner().Run(context.Background(), ExecutionStep{Operation: "format-disk"})
	if err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestLineLogger_SplitsLines(t *testing.T) {
	useTestLogger(t)
	l := &lineLogger{cmd: "make"}
	if _, err := l.Write([]byte("first\nsec")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := l.Write([]byte("ond\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if l.buf.Len() != 0 {
		t.Fatalf("expected complete lines to be drained, left %q", l.buf.String())
	}
	if _, err := l.Write([]byte("tail")); err != nil {
		t.Fatalf("write: %v", err)
	}
	l.Flush()
	if l.buf.Len() != 0 {
		t.Fatalf("expected flush to drain buffer")
	}
}
