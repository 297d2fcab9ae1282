package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/commands"
	"github.com/hay-kot/approvals/internal/core/config"
	"github.com/hay-kot/approvals/internal/core/styles"
	"github.com/hay-kot/approvals/internal/printer"
	"github.com/hay-kot/approvals/pkg/executil"
	"github.com/hay-kot/approvals/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// standalone commands run without a loaded configuration.
var standalone = []string{"init", "config", "help", "h"}

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		approvalApp = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "approvals",
		Usage:     "Review and chase documents waiting on your approval",
		UsageText: "approvals [global options] command [command options]",
		Description: `Approvals lists the project documents waiting on an approval you can act on
and sends reminder ("bump") emails to the approver they are stuck with.

Run 'approvals' with no arguments to open the interactive queue.
Run 'approvals init' to create a configuration file.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("APPROVALS_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "append JSON logs to this file instead of stderr (e.g. " + commands.DefaultLogFile() + ")",
				Sources:     cli.EnvVars("APPROVALS_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("APPROVALS_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			ctx = printer.NewContext(ctx, printer.New(os.Stderr))

			if slices.Contains(standalone, c.Args().First()) {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w (run 'approvals init' to create one)", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.UI.Theme)
			styles.SetTheme(palette)

			built, err := app.New(cfg, executil.RealExecutor{}, nil)
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*approvalApp = *built

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, approvalApp)

	root = commands.NewLsCmd(flags, approvalApp).Register(root)
	root = commands.NewShowCmd(flags, approvalApp).Register(root)
	root = commands.NewBumpCmd(flags, approvalApp).Register(root)
	root = commands.NewOpenCmd(flags, approvalApp).Register(root)
	root = commands.NewDoctorCmd(flags, approvalApp).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'approvals --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
