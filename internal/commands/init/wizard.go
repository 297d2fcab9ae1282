// Package initcmd implements the interactive first-run setup.
package initcmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/approvals/internal/core/config"
	"github.com/hay-kot/approvals/internal/core/validate"
	"github.com/hay-kot/approvals/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool   // skip prompts, use flag values
	Force      bool   // overwrite existing config
	BaseURL    string // preset api.base_url
	Email      string // preset user.email
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := Answers{BaseURL: w.opts.BaseURL, Email: w.opts.Email}
	if !w.opts.Yes {
		if err := w.promptUser(&answers); err != nil {
			return err
		}
	}

	cfg, err := GenerateConfig(answers)
	if err != nil {
		return err
	}

	backup, err := BackupConfig(w.opts.ConfigPath, time.Now())
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backup.Path != "" {
		p.Successf("Backed up config to: %s", backup.Path)
		if backup.Invalid != nil {
			p.Warnf("The replaced config did not load: %v", backup.Invalid)
		}
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if _, err := config.Load(w.opts.ConfigPath); err != nil {
		p.Warnf("Config needs attention: %v", err)
	} else {
		p.Successf("Configuration is valid")
	}

	p.Printf("")
	p.Printf("  1. Export %s or add api.token to the config", config.EnvAPIToken)
	p.Printf("  2. Run 'approvals' to open the queue")

	return nil
}

func (w *Wizard) promptUser(a *Answers) error {
	userID := ""
	if a.UserID != 0 {
		userID = strconv.Itoa(a.UserID)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Platform API URL").
				Description("Base URL of the projects platform, e.g. https://scienceprojects.example.org").
				Value(&a.BaseURL).
				Validate(func(s string) error {
					if err := validate.Required(s); err != nil {
						return err
					}
					return validate.HTTPURL(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("API token").
				Description("Leave empty to use " + config.EnvAPIToken).
				EchoMode(huh.EchoModePassword).
				Value(&a.Token),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Your user id").
				Value(&userID).
				Validate(validate.PositiveInt),
			huh.NewInput().Title("Your email").Value(&a.Email).Validate(validate.Email),
			huh.NewInput().Title("First name").Value(&a.FirstName),
			huh.NewInput().Title("Last name").Value(&a.LastName),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if userID != "" {
		a.UserID, _ = strconv.Atoi(userID)
	}
	return nil
}
