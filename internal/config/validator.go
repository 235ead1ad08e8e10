package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the configuration after defaults, file and flags have been
// merged. Returns nil if valid, or a *ValidationErrors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.BaseURL == "" {
		errs.Add("baseUrl", "baseUrl is required")
	} else if u, err := url.Parse(c.BaseURL); err != nil {
		errs.Add("baseUrl", fmt.Sprintf("invalid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs.Add("baseUrl", "scheme must be http or https")
	} else if u.Host == "" {
		errs.Add("baseUrl", "host is required")
	}

	if c.NameLength < 1 || c.NameLength > 64 {
		errs.Add("nameLength", "must be between 1 and 64")
	}

	if c.Iterations < 1 {
		errs.Add("iterations", "must be at least 1")
	}

	if c.Timeout < 0 {
		errs.Add("timeout", "must not be negative")
	}

	for name := range c.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " :\t\r\n") {
			errs.Add("headers", fmt.Sprintf("invalid header name %q", name))
		}
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		errs.Add("output.format", fmt.Sprintf("unknown format %q (must be text, json or yaml)", c.Output.Format))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs.Add("log.level", err.Error())
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs.Add("log.format", fmt.Sprintf("unknown log format %q (must be console or json)", c.Log.Format))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
