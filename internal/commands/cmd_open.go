package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/printer"
)

type OpenCmd struct {
	flags *Flags
	app   *app.App

	print bool
}

// NewOpenCmd creates a new open command
func NewOpenCmd(flags *Flags, app *app.App) *OpenCmd {
	return &OpenCmd{flags: flags, app: app}
}

// Register adds the open command to the application
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "open",
		Usage:       "Open a document's project page in the browser",
		UsageText:   "approvals open [--print] DOCUMENT_ID",
		Description: "Opens /projects/{project}/{page} on the configured web.base_url using web.open_command.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "print",
				Aliases:     []string{"p"},
				Usage:       "print the URL instead of opening it",
				Destination: &cmd.print,
			},
		},
		ShellComplete: DocumentIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *OpenCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	ids, err := parseIDs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return errors.New("expected exactly one document id")
	}

	e := cmd.app.NewEngine(nil)
	if err := e.Refresh(ctx); err != nil {
		return err
	}

	doc, ok := e.Lookup(ids[0])
	if !ok {
		return fmt.Errorf("document %d is not pending your action", ids[0])
	}

	if cmd.print {
		url, err := cmd.app.Browser.URL(doc.Document)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.Root().Writer, url)
		return err
	}

	url, err := cmd.app.Browser.Open(ctx, doc.Document)
	if err != nil {
		return err
	}
	if url == "" {
		p.Warnf("Document %d has no project page", doc.ID)
		return nil
	}
	p.Successf("Opened %s", url)
	return nil
}
