package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/woliveiras/laneprep/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runMain(ctx, os.Args, os.Stderr)
	stop()
	os.Exit(code)
}

// runMain runs the CLI and turns an error into "laneprep: <err>" on stderr
// and exit status 1.
func runMain(ctx context.Context, args []string, stderr io.Writer) int {
	if err := cli.RunContext(ctx, args); err != nil {
		fmt.Fprintf(stderr, "laneprep: %v\n", err)
		return 1
	}
	return 0
}
