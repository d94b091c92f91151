package tui

import (
	"log/slog"

	"github.com/goliatone/go-stepform/pkg/message"
)

// Theme captures optional prefixes the runner applies to printed messages.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// Labels holds the runner's own prompt texts.
type Labels struct {
	Submit      string
	Retry       string
	NoSelection string
	Summary     string
}

// DefaultLabels returns the English prompt texts.
func DefaultLabels() Labels {
	return Labels{
		Submit:      "Submit now?",
		Retry:       "Try again?",
		NoSelection: "(none)",
		Summary:     "Please review your entries:",
	}
}

// LabelsFor returns the prompt texts for a locale, English when unknown.
func LabelsFor(locale string) Labels {
	if message.BaseLocale(locale) == "de" {
		return Labels{
			Submit:      "Jetzt absenden?",
			Retry:       "Erneut versuchen?",
			NoSelection: "(keine Angabe)",
			Summary:     "Bitte prüfen Sie Ihre Angaben:",
		}
	}
	return DefaultLabels()
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLabels overrides the runner's prompt texts. Empty entries keep the
// default.
func WithLabels(labels Labels) Option {
	return func(r *Runner) {
		if labels.Submit != "" {
			r.labels.Submit = labels.Submit
		}
		if labels.Retry != "" {
			r.labels.Retry = labels.Retry
		}
		if labels.NoSelection != "" {
			r.labels.NoSelection = labels.NoSelection
		}
		if labels.Summary != "" {
			r.labels.Summary = labels.Summary
		}
	}
}

// WithLogger sets the logger used for runner events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
