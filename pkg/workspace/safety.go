package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// CheckPrerequisites ensures the external commands the plan spawns are
// available before we start moving things around.
func CheckPrerequisites(sys System, plan PlanResult) error {
	if sys == nil {
		sys = DefaultSystem
	}

	var missing []string
	for _, cmd := range plan.NeedsCommands() {
		if _, err := sys.LookPath(cmd); err != nil {
			missing = append(missing, cmd)
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing required commands: %s. Please install them before running laneprep (e.g., apt-get install git make)", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateDesignName checks that name is a single path segment: not empty,
// not "." or "..", without separators and not absolute.
func ValidateDesignName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty design name")
	case name == "." || name == "..":
		return errors.Wrapf(ErrInvalidName, "design name %q", name)
	case strings.ContainsAny(name, `/\`):
		return errors.Wrapf(ErrInvalidName, "design name %q must not contain path separators", name)
	case filepath.IsAbs(name):
		return errors.Wrapf(ErrInvalidName, "design name %q is an absolute path", name)
	}
	return nil
}

// CheckStaging refuses a staging folder that is, or contains, the working
// directory or the home directory. The flow variants finish with a recursive
// remove of the staging folder.
func CheckStaging(l Layout) error {
	if l.StagingDir == "" {
		return nil
	}
	for _, p := range []struct{ what, path string }{
		{"working directory", l.WorkDir},
		{"home directory", l.Home},
	} {
		if p.path == "" {
			continue
		}
		if within(l.StagingDir, p.path) {
			return errors.Wrapf(ErrUnsafeLayout, "staging folder %s contains the %s %s", l.StagingDir, p.what, p.path)
		}
	}
	return nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	relSl := filepath.ToSlash(rel)
	return relSl != ".." && !strings.HasPrefix(relSl, "../")
}

// SafeJoin joins root and parts and makes sure the result stays inside root.
func SafeJoin(root string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{root}, parts...)...)
	cleanRoot := filepath.Clean(root)
	cleanP := filepath.Clean(p)

	rel, err := filepath.Rel(cleanRoot, cleanP)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", p)
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", errors.Wrapf(ErrInvalidName, "%s escapes %s", p, root)
	}
	return cleanP, nil
}

// Preflight walks the plan without touching anything and reports every move
// or copy whose source is missing and every move that would hit an existing
// destination without Replace. Paths removed or consumed by earlier steps of
// the same plan are taken into account.
func Preflight(plan PlanResult) error {
	var gone []string
	var errs error

	for _, s := range plan.Steps {
		switch s.Operation {
		case OpRemove:
			gone = append(gone, s.Destination)
		case OpMove, OpCopy:
			if !present(s.Source, gone) {
				errs = multierr.Append(errs, errors.Wrapf(ErrSourceMissing, "%s %s", s.Operation, s.Source))
			}
			if s.Operation == OpMove {
				if !s.Replace && present(s.Destination, gone) {
					errs = multierr.Append(errs, errors.Wrapf(ErrDestinationExists, "%s (use --force to replace it)", s.Destination))
				}
				gone = append(gone, s.Source)
			}
		}
	}
	if errs != nil {
		return errors.Wrap(errs, "plan cannot be applied")
	}
	return nil
}

// present reports whether path exists on disk and was not removed by an
// earlier step.
func present(path string, gone []string) bool {
	for _, g := range gone {
		if within(g, path) {
			return false
		}
	}
	_, err := os.Lstat(path)
	return err == nil
}
