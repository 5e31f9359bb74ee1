package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PlanOptions represents the inputs required to compute a setup plan.
// It mirrors, at a high level, the user-facing options parsed by the CLI.
type PlanOptions struct {
	Variant     string
	Layout      Layout
	OpenLaneURL string
	// Force replaces destinations that already exist instead of failing.
	Force     bool
	SkipTests bool
}

// ExpectKind tells Verify what to look for at a path.
type ExpectKind int

const (
	ExpectFile ExpectKind = iota
	ExpectDir
	ExpectAbsent
)

func (k ExpectKind) String() string {
	switch k {
	case ExpectFile:
		return "file"
	case ExpectDir:
		return "directory"
	case ExpectAbsent:
		return "absent"
	}
	return fmt.Sprintf("ExpectKind(%d)", int(k))
}

// Expectation is a post-condition checked by Verify.
type Expectation struct {
	Path string
	Kind ExpectKind
	// Contains, for files, is a line that must be present.
	Contains string
}

// PlanResult is the ordered list of steps for a run together with the state
// the filesystem should be in once they all succeeded.
type PlanResult struct {
	Name   string
	Layout Layout
	Steps  []ExecutionStep
	Expect []Expectation
}

// Plan builds the setup plan for the requested variant.
func Plan(opts PlanOptions) (PlanResult, error) {
	v, err := LookupVariant(opts.Variant)
	if err != nil {
		return PlanResult{}, err
	}
	l := opts.Layout
	if l.WorkDir == "" || l.Home == "" {
		return PlanResult{}, errors.New("layout is not resolved: workdir and home are required")
	}

	p := PlanResult{Name: v.Name, Layout: l}

	if v.MoveHomeDeps {
		for _, name := range []string{PDKDirName, BuildDirName} {
			src := filepath.Join(l.WorkDir, name)
			dst := filepath.Join(l.Home, name)
			p.addMove(src, dst, opts.Force)
			p.expect(dst, ExpectDir)
			p.expect(src, ExpectAbsent)
		}
	}

	if v.UnpackFlow {
		if err := CheckStaging(l); err != nil {
			return PlanResult{}, err
		}
		for _, it := range flowItems {
			dst := filepath.Join(l.WorkDir, it.Name)
			p.addMove(filepath.Join(l.StagingDir, it.Name), dst, opts.Force)
			p.expect(dst, kindOf(it))
		}

		src := filepath.Join(l.WorkDir, ItemSrc)
		if v.ReplaceSrc {
			p.Steps = append(p.Steps, ExecutionStep{
				Operation:   OpRemove,
				Destination: src,
				Description: fmt.Sprintf("remove existing %s", src),
			})
		}
		p.addMove(filepath.Join(l.StagingDir, ItemSrc), src, opts.Force)
		p.expect(src, ExpectDir)

		p.Steps = append(p.Steps, ExecutionStep{
			Operation:   OpRemove,
			Destination: l.StagingDir,
			Description: fmt.Sprintf("remove staging folder %s", l.StagingDir),
		})
		p.expect(l.StagingDir, ExpectAbsent)
	}

	if v.CloneOpenLane {
		url := opts.OpenLaneURL
		if url == "" {
			url = DefaultOpenLaneURL
		}
		olDir := v.OpenLaneDir(l)

		p.Steps = append(p.Steps,
			ExecutionStep{
				Operation:   OpGitClone,
				Destination: olDir,
				Dir:         filepath.Dir(olDir),
				Args:        []string{"git", "clone", url, olDir},
				Description: fmt.Sprintf("clone %s into %s", url, olDir),
			},
			ExecutionStep{
				Operation:   OpAppendEnv,
				Destination: l.ShellRC,
				Line:        PDKRootExport,
				Description: fmt.Sprintf("append %q to %s", PDKRootExport, l.ShellRC),
			},
		)
		p.expect(olDir, ExpectDir)
		p.Expect = append(p.Expect, Expectation{Path: l.ShellRC, Kind: ExpectFile, Contains: PDKRootExport})

		if !opts.SkipTests {
			p.Steps = append(p.Steps, ExecutionStep{
				Operation:   OpMake,
				Dir:         olDir,
				Args:        []string{"make", "test"},
				Env:         []string{"PDK_ROOT=" + l.PDKDir},
				Description: fmt.Sprintf("run make test in %s (PDK_ROOT=%s)", olDir, l.PDKDir),
			})
		}
	}

	return p, nil
}

func (p *PlanResult) addMove(src, dst string, force bool) {
	desc := fmt.Sprintf("move %s -> %s", src, dst)
	if force {
		desc += " (replace)"
	}
	p.Steps = append(p.Steps, ExecutionStep{
		Operation:   OpMove,
		Source:      src,
		Destination: dst,
		Replace:     force,
		Description: desc,
	})
}

func (p *PlanResult) expect(path string, kind ExpectKind) {
	p.Expect = append(p.Expect, Expectation{Path: path, Kind: kind})
}

func kindOf(it Item) ExpectKind {
	if it.Dir {
		return ExpectDir
	}
	return ExpectFile
}

// NeedsCommands reports the external programs the plan will spawn.
func (p PlanResult) NeedsCommands() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range p.Steps {
		if len(s.Args) == 0 || seen[s.Args[0]] {
			continue
		}
		seen[s.Args[0]] = true
		out = append(out, s.Args[0])
	}
	return out
}

// String renders a human-readable description of the plan.
func (p PlanResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workspace plan: %s (%s)\n", p.Name, p.Layout.WorkDir)
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Description)
	}
	return b.String()
}
