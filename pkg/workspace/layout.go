package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultOpenLaneURL is the repository cloned by the OpenLane variants.
	DefaultOpenLaneURL = "https://github.com/The-OpenROAD-Project/OpenLane.git"

	StagingDirName  = "OpenLane-flow"
	OpenLaneDirName = "OpenLane"
	DesignsDirName  = "designs"
	BuildDirName    = "build"
	PDKDirName      = "pdk"
	ShellRCName     = ".bashrc"

	// PDKRootExport is the line appended to the shell startup file.
	PDKRootExport = "export PDK_ROOT=~/pdk"
)

// Names of the items shipped in the staging folder and in ~/build.
const (
	ItemCVCPDK   = "cvc_pdk"
	ItemMakefile = "makefile"
	ItemConfig   = "config.json"
	ItemTimeSim  = "time_sim.py"
	ItemSrc      = "src"
)

// Item is a file or directory relocated as an opaque blob.
type Item struct {
	Name string
	Dir  bool
}

// flowItems are moved from the staging folder into the working directory.
// src is handled separately because some variants replace it.
var flowItems = []Item{
	{Name: ItemCVCPDK, Dir: true},
	{Name: ItemMakefile},
	{Name: ItemConfig},
	{Name: ItemTimeSim},
}

// designItems are copied from ~/build into every new design directory.
var designItems = []Item{
	{Name: ItemTimeSim},
	{Name: ItemConfig},
	{Name: ItemMakefile},
	{Name: ItemCVCPDK, Dir: true},
}

// DesignItems returns the dependency set copied into a new design.
func DesignItems() []Item {
	return append([]Item(nil), designItems...)
}

// Layout holds every path laneprep reads or writes. All paths are absolute
// and cleaned.
type Layout struct {
	Home       string
	WorkDir    string
	StagingDir string
	BuildDir   string
	PDKDir     string
	DesignsDir string
	ShellRC    string
}

// LayoutOptions overrides parts of the default layout. Empty fields fall
// back to values discovered through System.
type LayoutOptions struct {
	Home       string
	WorkDir    string
	StagingDir string
}

// ResolveLayout builds a Layout from the given overrides, asking sys for the
// home and working directories when they are not set.
func ResolveLayout(sys System, opts LayoutOptions) (Layout, error) {
	if sys == nil {
		sys = DefaultSystem
	}

	home := opts.Home
	if home == "" {
		h, err := sys.HomeDir()
		if err != nil {
			return Layout{}, errors.Wrap(err, "cannot determine home directory")
		}
		home = h
	}
	home, err := absPath(expandHome(home, ""))
	if err != nil {
		return Layout{}, errors.Wrap(err, "home directory")
	}

	work := opts.WorkDir
	if work == "" {
		w, err := sys.WorkDir()
		if err != nil {
			return Layout{}, errors.Wrap(err, "cannot determine working directory")
		}
		work = w
	}
	work, err = absPath(expandHome(work, home))
	if err != nil {
		return Layout{}, errors.Wrap(err, "working directory")
	}

	staging := opts.StagingDir
	if staging == "" {
		staging = filepath.Join(work, StagingDirName)
	} else if !filepath.IsAbs(expandHome(staging, home)) {
		staging = filepath.Join(work, staging)
	}
	staging = filepath.Clean(expandHome(staging, home))

	l := Layout{
		Home:       home,
		WorkDir:    work,
		StagingDir: staging,
		BuildDir:   filepath.Join(home, BuildDirName),
		PDKDir:     filepath.Join(home, PDKDirName),
		DesignsDir: filepath.Join(work, DesignsDirName),
		ShellRC:    filepath.Join(home, ShellRCName),
	}
	if err := CheckStaging(l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// String renders the layout for dry-run output.
func (l Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "home:     %s\n", l.Home)
	fmt.Fprintf(&b, "workdir:  %s\n", l.WorkDir)
	fmt.Fprintf(&b, "staging:  %s\n", l.StagingDir)
	fmt.Fprintf(&b, "build:    %s\n", l.BuildDir)
	fmt.Fprintf(&b, "pdk:      %s\n", l.PDKDir)
	fmt.Fprintf(&b, "designs:  %s\n", l.DesignsDir)
	fmt.Fprintf(&b, "shell rc: %s\n", l.ShellRC)
	return b.String()
}

// expandHome replaces a leading "~" with home. With an empty home the path
// is returned unchanged.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty path")
	}
	return filepath.Abs(p)
}
