// Package tmpl renders Go text templates for command lines and document
// summaries.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// shellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes any existing single quotes using the '\'' technique.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

func orDefault(def, s string) string {
	if s != "" {
		return s
	}
	return def
}

func check(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var funcs = template.FuncMap{
	"shq":     shellQuote,
	"join":    strings.Join,
	"upper":   strings.ToUpper,
	"default": orDefault,
	"check":   check,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Args " ")
//   - upper: Upper-case a string
//   - default: Fallback for empty strings (e.g., .Email | default "n/a")
//   - check: Render a bool as yes/no
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
