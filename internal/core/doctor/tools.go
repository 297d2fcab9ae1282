package doctor

import (
	"context"
	"os/exec"
	"strings"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that the program used to open project pages is on
// $PATH.
type ToolsCheck struct {
	openCommand string
}

// NewToolsCheck creates a check for the given open command template.
func NewToolsCheck(openCommand string) *ToolsCheck {
	return &ToolsCheck{openCommand: openCommand}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	fields := strings.Fields(c.openCommand)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "{{") {
		result.Items = append(result.Items, warn("open command", "cannot determine program from "+quote(c.openCommand)))
		return result
	}

	program := fields[0]
	if path, err := lookPathFunc(program); err != nil {
		result.Items = append(result.Items, warn(program, "not found on PATH (opening project pages will fail)"))
	} else {
		result.Items = append(result.Items, pass(program, path))
	}

	return result
}

func quote(s string) string {
	return "\"" + s + "\""
}
