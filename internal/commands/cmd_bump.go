package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/bump"
	"github.com/hay-kot/approvals/internal/printer"
	"github.com/hay-kot/approvals/internal/queue"
	"github.com/hay-kot/approvals/pkg/iojson"
)

type BumpCmd struct {
	flags *Flags
	app   *app.App

	filters    filterFlags
	all        bool
	yes        bool
	jsonOutput bool
}

// NewBumpCmd creates a new bump command
func NewBumpCmd(flags *Flags, app *app.App) *BumpCmd {
	return &BumpCmd{flags: flags, app: app}
}

// Register adds the bump command to the application
func (cmd *BumpCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "bump",
		Usage:     "Send reminder emails to pending approvers",
		UsageText: "approvals bump [options] [DOCUMENT_ID...]",
		Description: `Sends one batched request asking the platform to email the approver each
document is waiting on.

Pass document ids, or --all to bump every bumpable document in the filtered
view. Documents without an approver email are skipped. A confirmation prompt
is shown unless --yes is given.`,
		Flags: append(cmd.filters.Flags(),
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "bump every bumpable document in the filtered view",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the sent requests as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		),
		ShellComplete: DocumentIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *BumpCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 && !cmd.all {
		return errors.New("pass document ids or --all")
	}

	e, err := cmd.filters.load(ctx, cmd.app)
	if err != nil {
		return err
	}

	n, err := beginBump(e, p, ids, cmd.all)
	if err != nil || n == 0 {
		return err
	}

	wf := e.Workflow()
	batch := wf.Batch()

	if !cmd.yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to bump without confirmation; pass --yes")
		}

		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Send %d reminder email(s)?", n)).
			Description(describeBatch(batch)).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			_ = wf.Cancel()
			p.Infof("Bump cancelled")
			return nil
		}
	}

	if err := wf.Confirm(ctx); err != nil {
		if cmd.jsonOutput {
			_ = iojson.WriteError("bump failed", map[string]any{
				"failure":   wf.Failure(),
				"documents": len(batch),
			})
		} else {
			p.Errorf("Bump failed: %s", wf.Failure())
		}
		return cli.Exit("", 1)
	}

	if cmd.jsonOutput {
		for _, req := range batch {
			if err := iojson.WriteLine(c.Root().Writer, req); err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
		}
		return nil
	}

	p.Successf("Sent %d reminder email(s)", n)
	return nil
}

// beginBump selects ids (or every bumpable document when all is set) and
// moves the workflow to confirming. A batch left empty after skipping
// unbumpable documents is reported as a notice and returns 0 with no error.
func beginBump(e *queue.Engine, p *printer.Printer, ids []int, all bool) (int, error) {
	if all {
		e.SelectAllBumpable(true)
	}
	for _, id := range ids {
		if !e.Result().Bumpable.Has(id) {
			p.Warnf("Document %d is not bumpable in the current view, skipping", id)
			continue
		}
		e.Selection().Toggle(id, true)
	}

	n, err := e.BumpSelected()
	if errors.Is(err, bump.ErrNothingToSend) {
		p.Infof("Nothing to send")
		return 0, nil
	}
	return n, err
}

func describeBatch(batch []approval.BumpRequest) string {
	const maxLines = 8

	desc := ""
	for i, req := range batch {
		if i == maxLines {
			desc += fmt.Sprintf("... and %d more", len(batch)-maxLines)
			break
		}
		desc += fmt.Sprintf("%s -> %s\n", req.ProjectTitle, req.ActionTaker.Email)
	}
	return desc
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid document id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
