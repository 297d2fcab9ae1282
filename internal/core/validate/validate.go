// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Required rejects values that are empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

// HTTPURL checks s is an absolute http or https URL with a host.
// The empty string passes; combine with Required when needed.
func HTTPURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// Email does a shallow shape check. The empty string passes.
func Email(s string) error {
	if s == "" {
		return nil
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("invalid email %q", s)
	}
	return nil
}

// PositiveInt checks s parses as an integer greater than zero. The empty
// string passes.
func PositiveInt(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if n < 1 {
		return errors.New("must be positive")
	}
	return nil
}
