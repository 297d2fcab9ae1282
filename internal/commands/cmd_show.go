package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/styles"
	"github.com/hay-kot/approvals/pkg/tmpl"
)

const summaryTemplate = `# {{ .Title }}

**{{ .Kind }}** for project {{ .ProjectID }} ({{ .Area | default "no business area" }})

| | |
|---|---|
| Status | {{ .Status }} |
| Waiting on | {{ .WaitingOn }} |
| Approver | {{ .Approver | default "unknown" }} |
| Email | {{ .Email | default "missing" }} |
| Capacity | {{ .Capacity | default "-" }} |
| Bumpable | {{ check .Bumpable }} |
| External email | {{ check .External }} |
{{ if .URL }}
[Open in browser]({{ .URL }})
{{ end }}`

type summaryData struct {
	Title     string
	Kind      string
	ProjectID int
	Area      string
	Status    string
	WaitingOn string
	Approver  string
	Email     string
	Capacity  string
	Bumpable  bool
	External  bool
	URL       string
}

type ShowCmd struct {
	flags *Flags
	app   *app.App

	raw bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *app.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a pending document",
		UsageText: "approvals show [--raw] DOCUMENT_ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		ShellComplete: DocumentIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
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

	md, err := renderSummary(doc, cmd.app)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprint(out, md)
		return err
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return err
	}

	rendered, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func renderSummary(d approval.Classified, a *app.App) (string, error) {
	url := ""
	if a != nil {
		url, _ = a.Browser.URL(d.Document)
	}

	return tmpl.Render(summaryTemplate, summaryData{
		Title:     d.PlainTitle,
		Kind:      d.Kind.Label(),
		ProjectID: d.ProjectID,
		Area:      d.BusinessAreaName,
		Status:    string(d.Status),
		WaitingOn: d.Pending.Label(),
		Approver:  d.ActionTaker().Name(),
		Email:     d.ActionTakerEmail,
		Capacity:  d.ActionCapacity,
		Bumpable:  d.Bumpable,
		External:  d.ExternalEmail,
		URL:       url,
	})
}
