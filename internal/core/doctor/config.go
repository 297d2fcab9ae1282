package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/approvals/internal/core/config"
)

// ConfigCheck validates the loaded configuration and the file it came from.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a config check.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.cfg.ValidateDeep(c.path); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Items = append(result.Items, fail(fe.Field, fe.Err.Error()))
			}
		} else {
			result.Items = append(result.Items, fail("config", err.Error()))
		}
		return result
	}
	result.Items = append(result.Items, pass("config", c.path))

	if c.cfg.API.Token == "" {
		result.Items = append(result.Items, warn("api.token", "not set (set "+config.EnvAPIToken+" or api.token)"))
	} else {
		result.Items = append(result.Items, pass("api.token", "set"))
	}

	if c.cfg.User.Email == "" {
		result.Items = append(result.Items, warn("user.email", "not set; documents without a requesting user are sent anonymously"))
	} else {
		result.Items = append(result.Items, pass("user.email", c.cfg.User.Email))
	}

	return result
}
