package main

import (
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/dendrite/internal/cli"
	"github.com/toyz/dendrite/internal/utils"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type app struct {
	out, errOut io.Writer

	viper       *viper.Viper
	opts        cli.LoadOptions
	cfg         *cli.Config
	diagnostics *utils.DiagnosticSystem
	reported    bool
}

// newApp creates the command tree. Nil writers keep the terminal defaults.
func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, viper: cli.NewViper()}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "dendrite",
		Short:         "Command tree schema compiler",
		Long:          "dendrite turns //dendrite:: annotated Go types into command-line parser definitions\nand rebuilds typed values from what the parser matched.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	if a.out != nil {
		root.SetOut(a.out)
	}
	if a.errOut != nil {
		root.SetErr(a.errOut)
	}

	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolP("quiet", "q", false, "Only show errors")
	flags.StringVar(&a.opts.ConfigFile, "config", "", "Config file (default .dendrite.yaml in the working directory)")
	flags.StringVar(&a.opts.EnvFile, "env-file", ".env", "Environment file loaded before reading DENDRITE_ variables")
	flags.String("module", "", "Module path (defaults to the go.mod module)")
	flags.String("name", "", "Command name for top-level types without one (defaults to the module's last element)")
	flags.String("description", "", "Description for top-level types without one")
	for _, key := range []string{"verbose", "quiet", "module", "name", "description"} {
		_ = a.viper.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(a.generateCommand(), a.cleanCommand(), a.inspectCommand(), a.serveCommand())
	return root
}

func (a *app) load() error {
	cfg, err := cli.LoadConfig(a.viper, a.opts)
	if err != nil {
		return err
	}
	a.cfg = cfg

	switch {
	case cfg.Quiet:
		a.diagnostics = utils.NewQuietDiagnostics()
	case cfg.Verbose:
		a.diagnostics = utils.NewVerboseDiagnostics()
	default:
		a.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if a.out != nil {
		a.diagnostics.SetOutput(a.out, a.errOut)
	}
	return nil
}

// applyArgs lets positional directories and --dry-run override the config
func (a *app) applyArgs(cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		a.cfg.Directories = args
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil && dryRun {
		a.cfg.DryRun = true
	}
}

// fail reports err through diagnostics and hands it back to cobra
func (a *app) fail(err error) error {
	if err != nil && a.diagnostics != nil {
		a.diagnostics.ReportError(err)
		a.reported = true
	}
	return err
}

func (a *app) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate command methods for annotated packages",
		Long: `Scans the given directories for //dendrite:: annotated types and writes
autogen_dendrite.go into each package that has them.

A directory ending in "/..." is scanned recursively; ./... is the default.`,
		Example: "  dendrite generate ./...\n  dendrite generate --module github.com/acme/tool ./cmd/...",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyArgs(cmd, args)
			a.diagnostics.Section("generate")
			if a.cfg.Verbose {
				a.diagnostics.Subsection("Configuration")
				a.diagnostics.List("Target directories: %s", strings.Join(a.cfg.Directories, ", "))
				if a.cfg.ModuleName != "" {
					a.diagnostics.List("Custom module: %s", a.cfg.ModuleName)
				}
			}

			g := cli.NewGenerator(a.diagnostics)
			if err := g.Run(a.cfg); err != nil {
				return a.fail(err)
			}
			a.diagnostics.Success("%s", g.Summary())
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Show what would be written without writing")
	return cmd
}

func (a *app) cleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Remove generated files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyArgs(cmd, args)
			a.diagnostics.Section("clean")
			removed, err := cli.NewCleaner(a.diagnostics).CleanGeneratedFiles(a.cfg.Directories, a.cfg.DryRun)
			if err != nil {
				return a.fail(err)
			}
			a.diagnostics.Success("%d generated files removed", len(removed))
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Show what would be removed without removing")
	return cmd
}

func (a *app) inspectCommand() *cobra.Command {
	var opts cli.InspectOptions
	cmd := &cobra.Command{
		Use:   "inspect <schema.yaml> [subcommand...]",
		Short: "Print the parser tree of a schema document",
		Long: `Compiles a YAML schema document and prints its command tree. Any further
arguments are parsed as a command line and the reconstructed selection is printed.`,
		Example: "  dendrite inspect myapp.yaml\n  dendrite inspect --backend cobra myapp.yaml remote add",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Args = args[1:]
			if err := cli.NewInspector(cmd.OutOrStdout()).Inspect(args[0], opts); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	// everything after the schema path belongs to the inspected command line
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.Backend, "backend", "reference", "Parser backend: reference, cobra or urfave")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the schema registration host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.fail(cli.Serve(ctx, a.cfg, a.diagnostics))
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("engine", "echo", "Web framework: echo, gin or fiber")
	_ = a.viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = a.viper.BindPFlag("engine", cmd.Flags().Lookup("engine"))
	return cmd
}
