package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woliveiras/laneprep/pkg/workspace"
)

// Version can be overridden with -ldflags "-X github.com/woliveiras/laneprep/pkg/cli.Version=1.0.0".
var Version = "dev"

const designUsage = `
---------------------------------------------
Syntax : laneprep init-design <design name>
---------------------------------------------
`

// deps groups everything a run talks to, so tests can swap them.
type deps struct {
	ui     UI
	logOut io.Writer
	sys    workspace.System
	// runner performs steps; nil means a CommandRunner.
	runner workspace.Runner
}

// Run is the main entrypoint for the CLI.
//
// args are the full process arguments, program name included.
func Run(args []string) error {
	return RunContext(context.Background(), args)
}

// RunContext is Run with a context that cancels external commands, e.g. on
// SIGINT.
func RunContext(ctx context.Context, args []string) error {
	return run(ctx, args, deps{ui: NewStdUI(), logOut: os.Stderr, sys: workspace.DefaultSystem})
}

// run is the internal implementation that allows injecting a custom UI,
// system and runner (useful for tests).
func run(ctx context.Context, args []string, d deps) error {
	if len(args) == 0 {
		return errors.New("no arguments provided")
	}
	if d.sys == nil {
		d.sys = workspace.DefaultSystem
	}
	if d.logOut == nil {
		d.logOut = io.Discard
	}

	root := newRootCmd(&d)
	root.SetArgs(normalizeArgs(args[1:]))
	root.SetOut(d.ui)
	root.SetErr(d.ui)
	return root.ExecuteContext(ctx)
}

// normalizeArgs accepts the single-dash -help spelling of --help.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "-help" {
			a = "--help"
		}
		out[i] = a
	}
	return out
}

func newRootCmd(d *deps) *cobra.Command {
	cfg := &Config{}
	var logger *zap.Logger

	root := &cobra.Command{
		Use:   "laneprep",
		Short: "Prepare an OpenLane workspace",
		Long: `laneprep relocates the staged OpenLane flow files, the PDK and the shared
build dependencies, clones and tests OpenLane, and scaffolds design
directories under designs/.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger = newLogger(d.logOut, cfg.Verbose, cfg.Quiet)
			workspace.SetLogger(logger.Sugar())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Home, "home", envOr(EnvHome, ""), "home directory receiving pdk/ and build/ (env "+EnvHome+")")
	pf.StringVar(&cfg.WorkDir, "workdir", "", "working directory (default: current directory)")
	pf.StringVar(&cfg.StagingDir, "staging", "", "staging folder holding the flow files (default: <workdir>/"+workspace.StagingDirName+")")
	pf.StringVar(&cfg.StateFile, "state-file", envOr(EnvStateFile, ""), "append a record of each run to this file (env "+EnvStateFile+")")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose mode")
	pf.BoolVarP(&cfg.Quiet, "quiet", "q", false, "quiet mode, only warnings and errors are logged")

	root.AddCommand(
		newSetupCmd(d, cfg),
		newInitDesignCmd(d, cfg),
		newVerifyCmd(d, cfg),
		newVersionCmd(d),
	)
	return root
}

func newSetupCmd(d *deps, cfg *Config) *cobra.Command {
	opts := SetupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Relocate staged files, optionally clone and test OpenLane",
		Long: "Relocate staged files, optionally clone and test OpenLane.\n\nVariants:\n" +
			variantHelp(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd.Context(), d, *cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Variant, "variant", workspace.DefaultVariant, "setup variant ("+strings.Join(workspace.VariantNames(), ", ")+")")
	f.StringVar(&opts.OpenLaneURL, "openlane-url", envOr(EnvOpenLaneURL, workspace.DefaultOpenLaneURL), "OpenLane repository to clone (env "+EnvOpenLaneURL+")")
	f.BoolVarP(&opts.Force, "force", "f", false, "replace destinations that already exist")
	f.BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation with --force")
	f.BoolVar(&opts.SkipTests, "skip-tests", false, "do not run make test after cloning OpenLane")
	f.BoolVar(&opts.DryRun, "dry-run", false, "show what would be done without making changes")
	f.BoolVar(&opts.KeepGoing, "keep-going", false, "continue with the next step when one fails")
	f.BoolVar(&opts.NoVerify, "no-verify", false, "skip the post-setup verification")
	return cmd
}

func runSetup(ctx context.Context, d *deps, cfg Config, opts SetupOptions) error {
	layout, err := workspace.ResolveLayout(d.sys, cfg.layoutOptions())
	if err != nil {
		return err
	}
	plan, err := workspace.Plan(workspace.PlanOptions{
		Variant:     opts.Variant,
		Layout:      layout,
		OpenLaneURL: opts.OpenLaneURL,
		Force:       opts.Force,
		SkipTests:   opts.SkipTests,
	})
	if err != nil {
		return err
	}

	if opts.DryRun {
		return printDryRun(ctx, d.ui, plan, cfg.Verbose)
	}

	if err := workspace.CheckPrerequisites(d.sys, plan); err != nil {
		return err
	}

	if opts.Force && !opts.Yes {
		d.ui.Println(plan.String())
		ok, err := d.ui.Confirm("Existing destinations will be replaced. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("setup cancelled by user")
		}
	}

	if err := apply(ctx, d, cfg, plan, opts.KeepGoing); err != nil {
		return err
	}
	if !opts.NoVerify {
		if err := workspace.Verify(plan); err != nil {
			return err
		}
	}

	d.ui.Printf("Workspace ready (%s): %s\n", plan.Name, layout.WorkDir)
	return nil
}

func newInitDesignCmd(d *deps, cfg *Config) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init-design <design name>",
		Short: "Create designs/<name> with the shared build dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				d.ui.Printf("%s", designUsage)
				return nil
			}
			return runInitDesign(cmd.Context(), d, *cfg, args[0], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be done without making changes")
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		d.ui.Printf("%s", designUsage)
	})
	return cmd
}

func runInitDesign(ctx context.Context, d *deps, cfg Config, name string, dryRun bool) error {
	layout, err := workspace.ResolveLayout(d.sys, cfg.layoutOptions())
	if err != nil {
		return err
	}
	plan, err := workspace.PlanDesign(layout, name)
	if err != nil {
		return err
	}

	if dryRun {
		return printDryRun(ctx, d.ui, plan, cfg.Verbose)
	}

	if err := apply(ctx, d, cfg, plan, false); err != nil {
		return err
	}
	if err := workspace.Verify(plan); err != nil {
		return err
	}

	d.ui.Printf("Design %s initialised in %s\n", name, layout.DesignsDir)
	return nil
}

func newVerifyCmd(d *deps, cfg *Config) *cobra.Command {
	var variant, design string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a setup variant or a design was applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout, err := workspace.ResolveLayout(d.sys, cfg.layoutOptions())
			if err != nil {
				return err
			}

			var plan workspace.PlanResult
			if design != "" {
				plan, err = workspace.PlanDesign(layout, design)
			} else {
				plan, err = workspace.Plan(workspace.PlanOptions{Variant: variant, Layout: layout})
			}
			if err != nil {
				return err
			}

			if err := workspace.Verify(plan); err != nil {
				return err
			}
			d.ui.Printf("OK: %s\n", plan.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", workspace.DefaultVariant, "setup variant to check")
	cmd.Flags().StringVar(&design, "design", "", "check designs/<name> instead of a setup variant")
	return cmd
}

func newVersionCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the laneprep version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			d.ui.Println(Version)
		},
	}
}

// apply runs the plan, recording PLAN and APPLY_* entries in the state log
// when one is configured.
func apply(ctx context.Context, d *deps, cfg Config, plan workspace.PlanResult, keepGoing bool) error {
	runID := uuid.NewString()
	log := workspace.Logger().With("run_id", runID)
	workspace.SetLogger(log)

	if cfg.StateFile != "" {
		if err := workspace.AppendStateLog(cfg.StateFile, runID, plan, workspace.PhasePlan, nil); err != nil {
			log.Warnw("cannot write state log", "error", err.Error())
		}
	}

	runner := d.runner
	if runner == nil {
		runner = workspace.NewCommandRunner()
	}
	log.Infow("applying plan", "plan", plan.Name, "steps", len(plan.Steps))
	err := workspace.Apply(ctx, plan, runner, workspace.ApplyOptions{KeepGoing: keepGoing})

	if cfg.StateFile != "" {
		phase := workspace.PhaseApplySuccess
		if err != nil {
			phase = workspace.PhaseApplyFailed
		}
		if logErr := workspace.AppendStateLog(cfg.StateFile, runID, plan, phase, err); logErr != nil {
			log.Warnw("cannot write state log", "error", logErr.Error())
		}
	}
	return err
}

// printDryRun prints the plan. In verbose mode the layout is printed too and the
// steps are walked through a NoopRunner so they show up in the log.
func printDryRun(ctx context.Context, ui UI, plan workspace.PlanResult, verbose bool) error {
	if verbose {
		ui.Println(plan.Layout.String())
	}
	ui.Println(plan.String())
	if !verbose {
		return nil
	}
	return workspace.Apply(ctx, plan, workspace.NewNoopRunner(), workspace.ApplyOptions{})
}

func variantHelp() string {
	var b strings.Builder
	for _, name := range workspace.VariantNames() {
		v, _ := workspace.LookupVariant(name)
		fmt.Fprintf(&b, "  %-14s %s\n", v.Name, v.Description)
	}
	return b.String()
}
