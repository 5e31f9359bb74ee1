package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeSystem struct {
	home    string
	work    string
	missing map[string]bool
	err     error
}

func (f fakeSystem) HomeDir() (string, error) { return f.home, f.err }
func (f fakeSystem) WorkDir() (string, error) { return f.work, f.err }

func (f fakeSystem) LookPath(file string) (string, error) {
	if f.missing[file] {
		return "", os.ErrNotExist
	}
	return "/usr/bin/" + file, nil
}

type execCall struct {
	dir  string
	env  []string
	argv []string
}

// useTestLogger routes package logs to the test output.
func useTestLogger(t *testing.T) {
	t.Helper()
	SetLogger(zaptest.NewLogger(t).Sugar())
	t.Cleanup(func() { SetLogger(nil) })
}

// fakeExec replaces commandExec with a recorder. A git clone creates its
// target directory so that later steps and Verify see a checkout.
func fakeExec(t *testing.T, fail error) *[]execCall {
	t.Helper()
	orig := commandExec
	t.Cleanup(func() { commandExec = orig })

	var calls []execCall
	commandExec = func(ctx context.Context, dir string, env []string, argv []string) error {
		calls = append(calls, execCall{dir: dir, env: env, argv: argv})
		if fail != nil {
			return fail
		}
		if len(argv) >= 4 && argv[0] == "git" && argv[1] == "clone" {
			return os.MkdirAll(filepath.Join(argv[3], ".git"), 0o755)
		}
		return nil
	}
	return &calls
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// testLayout resolves a layout rooted in a fresh temp dir with home and
// project/ as the working directory.
func testLayout(t *testing.T) Layout {
	t.Helper()
	root := t.TempDir()
	sys := fakeSystem{home: filepath.Join(root, "home"), work: filepath.Join(root, "home", "project")}
	for _, d := range []string{sys.home, sys.work} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	l, err := ResolveLayout(sys, LayoutOptions{})
	if err != nil {
		t.Fatalf("ResolveLayout: %v", err)
	}
	return l
}

// stageFlow populates the staging folder with the flow items.
func stageFlow(t *testing.T, l Layout) {
	t.Helper()
	mustWrite(t, filepath.Join(l.StagingDir, ItemCVCPDK, "lib", "cells.lib"), "cells")
	mustWrite(t, filepath.Join(l.StagingDir, ItemMakefile), "all:\n")
	mustWrite(t, filepath.Join(l.StagingDir, ItemConfig), "{}")
	mustWrite(t, filepath.Join(l.StagingDir, ItemTimeSim), "print('sim')\n")
	mustWrite(t, filepath.Join(l.StagingDir, ItemSrc, "top.v"), "module top; endmodule\n")
}
