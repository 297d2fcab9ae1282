package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
)

// DocumentIDCompleter returns a ShellCompleteFunc that suggests pending
// document ids as positional completions, with the plain title as the
// description.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func DocumentIDCompleter(a *app.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if a == nil || a.Platform == nil {
			return
		}

		e := a.NewEngine(nil)
		if err := e.Refresh(ctx); err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, d := range e.View() {
			_, _ = fmt.Fprintf(w, "%d:%s\n", d.ID, d.PlainTitle)
		}
	}
}
