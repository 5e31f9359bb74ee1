// Package cli provides the command-line interface used by laneprep.
//
// The CLI resolves the workspace layout, builds a setup or design plan,
// prints it for review in dry-run mode, and otherwise applies and verifies
// it. Use `Run` as the entry point when embedding the CLI in other tools.
//
// Example usage:
//
//	if err := cli.Run(os.Args); err != nil {
//	    log.Fatalf("laneprep: %v", err)
//	}
package cli
