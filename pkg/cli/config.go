package cli

import (
	"os"

	"github.com/woliveiras/laneprep/pkg/workspace"
)

// Environment variables consulted for flag defaults.
const (
	EnvHome        = "LANEPREP_HOME"
	EnvOpenLaneURL = "LANEPREP_OPENLANE_URL"
	EnvStateFile   = "LANEPREP_STATE_FILE"
)

// Config holds the options shared by every subcommand.
type Config struct {
	Home       string
	WorkDir    string
	StagingDir string
	StateFile  string
	Verbose    bool // -v
	Quiet      bool // -q
}

// SetupOptions holds the flags of the setup command.
type SetupOptions struct {
	Variant     string
	OpenLaneURL string
	Force       bool
	Yes         bool
	SkipTests   bool
	DryRun      bool
	KeepGoing   bool
	NoVerify    bool
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (c Config) layoutOptions() workspace.LayoutOptions {
	return workspace.LayoutOptions{
		Home:       c.Home,
		WorkDir:    c.WorkDir,
		StagingDir: c.StagingDir,
	}
}
