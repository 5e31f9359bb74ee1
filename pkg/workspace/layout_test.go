package workspace

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestResolveLayout_Defaults(t *testing.T) {
	sys := fakeSystem{home: "/home/ta", work: "/home/ta/lab1"}

	l, err := ResolveLayout(sys, LayoutOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Layout{
		Home:       "/home/ta",
		WorkDir:    "/home/ta/lab1",
		StagingDir: "/home/ta/lab1/OpenLane-flow",
		BuildDir:   "/home/ta/build",
		PDKDir:     "/home/ta/pdk",
		DesignsDir: "/home/ta/lab1/designs",
		ShellRC:    "/home/ta/.bashrc",
	}
	if l != want {
		t.Fatalf("unexpected layout.\n got: %+v\nwant: %+v", l, want)
	}
}

func TestResolveLayout_Overrides(t *testing.T) {
	sys := fakeSystem{home: "/home/ta", work: "/tmp/ignored"}

	l, err := ResolveLayout(sys, LayoutOptions{
		Home:       "/opt/student",
		WorkDir:    "~/lab2",
		StagingDir: "incoming",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.WorkDir != "/opt/student/lab2" {
		t.Fatalf("expected ~ to expand against the overridden home, got %q", l.WorkDir)
	}
	if l.StagingDir != filepath.Join("/opt/student/lab2", "incoming") {
		t.Fatalf("expected relative staging dir under workdir, got %q", l.StagingDir)
	}
	if l.PDKDir != "/opt/student/pdk" {
		t.Fatalf("unexpected pdk dir %q", l.PDKDir)
	}
}

func TestResolveLayout_ErrorFromSystem(t *testing.T) {
	sys := fakeSystem{err: fmt.Errorf("boom")}
	if _, err := ResolveLayout(sys, LayoutOptions{}); err == nil {
		t.Fatalf("expected error when system fails")
	}
}

func TestExpandHome(t *testing.T) {
	cases := []struct {
		path, home, want string
	}{
		{"~", "/h", "/h"},
		{"~/pdk", "/h", "/h/pdk"},
		{"/abs", "/h", "/abs"},
		{"~user/x", "/h", "~user/x"},
		{"~/pdk", "", "~/pdk"},
	}
	for _, tc := range cases {
		if got := expandHome(tc.path, tc.home); got != tc.want {
			t.Fatalf("expandHome(%q, %q) = %q, want %q", tc.path, tc.home, got, tc.want)
		}
	}
}

func TestResolveLayout_RejectsStagingAroundWorkOrHome(t *testing.T) {
	sys := fakeSystem{home: "/home/ta", work: "/home/ta/lab1"}

	cases := []struct {
		staging string
		ok      bool
	}{
		{".", false},
		{"..", false},
		{"~", false},
		{"/home", false},
		{"/", false},
		{"/home/ta/lab1/", false},
		{"incoming", true},
		{"~/incoming", true},
		{"/tmp/OpenLane-flow", true},
	}
	for _, tc := range cases {
		_, err := ResolveLayout(sys, LayoutOptions{StagingDir: tc.staging})
		if (err == nil) != tc.ok {
			t.Fatalf("staging %q: err = %v, want ok=%v", tc.staging, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrUnsafeLayout) {
			t.Fatalf("staging %q: expected ErrUnsafeLayout, got %v", tc.staging, err)
		}
	}
}
