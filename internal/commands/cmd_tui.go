package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/core/sched"
	"github.com/hay-kot/approvals/internal/queue"
	"github.com/hay-kot/approvals/internal/tui"
	"github.com/hay-kot/approvals/pkg/logutils"
	"github.com/hay-kot/approvals/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *app.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on 127.0.0.1 at the given port (e.g., 6060)",
			Sources:     cli.EnvVars("APPROVALS_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	// Logs written to stderr would tear the alternate screen, so they are
	// held until the program exits.
	if cmd.flags.LogFile == "" {
		deferred := logutils.NewDeferred(0)
		prev := log.Logger
		log.Logger = log.Logger.Output(zerolog.ConsoleWriter{Out: deferred, TimeFormat: time.Kitchen})
		defer func() {
			log.Logger = prev
			_ = deferred.Flush(os.Stderr)
		}()
	}

	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
	}

	relay := tui.NewRelay()
	engine := cmd.app.NewEngine(nil, queue.WithScheduler(sched.NewPosted(relay.Post)))

	m := tui.New(ctx, tui.Options{
		Engine:  engine,
		Browser: cmd.app.Browser,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	relayCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go relay.Run(relayCtx, p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
