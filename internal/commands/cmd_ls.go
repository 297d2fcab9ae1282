package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *app.App

	filters    filterFlags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *app.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List documents pending your approval",
		UsageText: "approvals ls [--kind KIND]... [--level LEVEL] [--search TEXT] [--json]",
		Description: `Fetches the pending-approval snapshot and prints the filtered view.

Kinds combine as a union; 'all' is exclusive with explicit kinds. Rows are
flagged when the approver has no email (!) or an external email (ext).

Use --json for one JSON object per document.`,
		Flags: append(cmd.filters.Flags(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		),
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	e, err := cmd.filters.load(ctx, cmd.app)
	if err != nil {
		return err
	}

	docs, err := cmd.filters.visible(e)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, d := range docs {
			if err := iojson.WriteLine(out, newDocumentInfo(d)); err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
		}
		return nil
	}

	if len(docs) == 0 {
		fmt.Fprintf(os.Stderr, "No documents pending\n")
		return nil
	}

	summary := e.Summary()
	if summary.LatestYear != 0 {
		_, _ = fmt.Fprintf(out, "Reporting year %d\n\n", summary.LatestYear)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKIND\tSTATUS\tWAITING ON\tAPPROVER\tFLAGS\tTITLE")
	for _, d := range docs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Kind.Tag(), d.Status, d.Pending.Label(), approverLabel(d), flagsLabel(d), d.PlainTitle)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d shown of %d, %d bumpable, %d missing info, %d external\n",
		len(docs), summary.Total, summary.Bumpable, summary.MissingInfo, summary.ExternalEmail)

	return nil
}

func approverLabel(d approval.Classified) string {
	if d.ActionTakerEmail == "" {
		return "-"
	}
	return d.ActionTakerEmail
}

func flagsLabel(d approval.Classified) string {
	switch {
	case d.MissingInfo:
		return "!"
	case d.ExternalEmail:
		return "ext"
	case d.Bumpable:
		return "bump"
	default:
		return ""
	}
}

// documentInfo is the JSON output format for approvals ls --json.
type documentInfo struct {
	ID            int    `json:"id"`
	ProjectID     int    `json:"project_id"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	WaitingOn     string `json:"waiting_on"`
	Approver      string `json:"approver,omitempty"`
	BusinessArea  string `json:"business_area,omitempty"`
	Bumpable      bool   `json:"bumpable"`
	MissingInfo   bool   `json:"missing_info"`
	ExternalEmail bool   `json:"external_email"`
}

func newDocumentInfo(d approval.Classified) documentInfo {
	return documentInfo{
		ID:            d.ID,
		ProjectID:     d.ProjectID,
		Kind:          d.Kind.Tag(),
		Title:         d.PlainTitle,
		Status:        string(d.Status),
		WaitingOn:     string(d.Pending),
		Approver:      d.ActionTakerEmail,
		BusinessArea:  d.BusinessAreaName,
		Bumpable:      d.Bumpable,
		MissingInfo:   d.MissingInfo,
		ExternalEmail: d.ExternalEmail,
	}
}
