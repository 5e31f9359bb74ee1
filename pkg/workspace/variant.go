package workspace

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Variant describes one flavour of workspace setup. The historical setup
// scripts differed only in which of these switches they flipped.
type Variant struct {
	Name        string
	Description string

	// MoveHomeDeps moves ./pdk and ./build into the home directory.
	MoveHomeDeps bool
	// UnpackFlow moves the flow files out of the staging folder and removes
	// the folder afterwards.
	UnpackFlow bool
	// ReplaceSrc removes an existing ./src before the staged one is moved in.
	ReplaceSrc bool
	// CloneOpenLane clones OpenLane, exports PDK_ROOT and runs make test.
	CloneOpenLane bool
	// CloneIntoParent places the OpenLane clone next to the working
	// directory instead of inside it.
	CloneIntoParent bool
}

const DefaultVariant = "flow"

var variants = map[string]Variant{
	"home": {
		Name:            "home",
		Description:     "move pdk and build into $HOME, clone OpenLane next to the workdir and run its tests",
		MoveHomeDeps:    true,
		CloneOpenLane:   true,
		CloneIntoParent: true,
	},
	"flow": {
		Name:        "flow",
		Description: "unpack OpenLane-flow into the workdir, replacing src",
		UnpackFlow:  true,
		ReplaceSrc:  true,
	},
	"flow-keep-src": {
		Name:        "flow-keep-src",
		Description: "unpack OpenLane-flow into the workdir, refusing to overwrite src",
		UnpackFlow:  true,
	},
	"flow-openlane": {
		Name:          "flow-openlane",
		Description:   "unpack OpenLane-flow, then clone OpenLane into the workdir and run its tests",
		UnpackFlow:    true,
		ReplaceSrc:    true,
		CloneOpenLane: true,
	},
}

// LookupVariant returns the variant registered under name.
func LookupVariant(name string) (Variant, error) {
	if name == "" {
		name = DefaultVariant
	}
	v, ok := variants[name]
	if !ok {
		return Variant{}, errors.Errorf("unknown variant %q (known: %v)", name, VariantNames())
	}
	return v, nil
}

// VariantNames lists the registered variants in alphabetical order.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OpenLaneDir returns where the variant clones OpenLane.
func (v Variant) OpenLaneDir(l Layout) string {
	if v.CloneIntoParent {
		return filepath.Join(filepath.Dir(l.WorkDir), OpenLaneDirName)
	}
	return filepath.Join(l.WorkDir, OpenLaneDirName)
}
