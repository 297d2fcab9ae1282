package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/approvals/internal/commands/init"
)

type InitCmd struct {
	flags   *Flags
	yes     bool
	force   bool
	baseURL string
	email   string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize approvals configuration with an interactive wizard",
		UsageText: "approvals init [options]",
		Description: `Sets up approvals for first-time use with an interactive wizard.

The wizard asks for the platform URL, an API token and the user sent as the
requester of reminder emails, then writes ~/.config/approvals/config.yaml.

Use --yes with --api-url to write a config without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept flag values without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "platform API base URL",
				Destination: &cmd.baseURL,
			},
			&cli.StringFlag{
				Name:        "email",
				Usage:       "your email address",
				Destination: &cmd.email,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes,
		Force:      cmd.force,
		BaseURL:    cmd.baseURL,
		Email:      cmd.email,
	})
	return wizard.Run(ctx)
}
