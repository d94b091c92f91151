package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-stepform/internal/logger"
	"github.com/goliatone/go-stepform/pkg/form"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/submission"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Runner walks a wizard session in the terminal: it prompts each field of the
// current step, feeds the answers back as focus/edit/blur events, advances
// when the step gate allows it and finally submits.
type Runner struct {
	driver PromptDriver
	theme  Theme
	labels Labels
	logger *slog.Logger
}

// New constructs a runner with the survey driver and English labels.
func New(options ...Option) *Runner {
	r := &Runner{
		driver: NewSurveyDriver(nil),
		theme:  Theme{ErrorPrefix: "! "},
		labels: DefaultLabels(),
		logger: logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Run drives s until it is submitted successfully, the user declines or
// aborts, or ctx is done. The returned outcome is the session's last one.
func (r *Runner) Run(ctx context.Context, s *wizard.Session) (wizard.OutcomeView, error) {
	if ctx == nil {
		return wizard.OutcomeView{}, errors.New("tui: context is required")
	}
	if s == nil {
		return wizard.OutcomeView{}, errors.New("tui: session is nil")
	}

	for {
		if err := ctx.Err(); err != nil {
			return s.Outcome(), err
		}
		step := s.Current()
		last := s.CurrentIndex() == len(s.Steps())-1

		if err := r.info(ctx, r.theme.StepPrefix+step.Title); err != nil {
			return s.Outcome(), err
		}
		for _, field := range step.Fields {
			if err := r.promptField(ctx, s, field.Name); err != nil {
				return s.Outcome(), err
			}
		}

		if err := s.Advance(); err != nil {
			if !errors.Is(err, wizard.ErrStepNotReady) {
				return s.Outcome(), err
			}
			r.logger.Debug("step not ready, prompting again", "step", step.Name)
			if err := r.reportStep(ctx, s, step.Name); err != nil {
				return s.Outcome(), err
			}
			continue
		}
		if last {
			break
		}
	}

	return r.submit(ctx, s)
}

func (r *Runner) promptField(ctx context.Context, s *wizard.Session, name string) error {
	for {
		view, err := s.Field(name)
		if err != nil {
			return err
		}
		if err := s.Focus(name); err != nil {
			return err
		}
		value, err := r.ask(ctx, view)
		if err != nil {
			return err
		}
		if err := s.SetValue(name, value); err != nil {
			return err
		}
		if err := s.Blur(name); err != nil {
			return err
		}

		view, err = s.Field(name)
		if err != nil {
			return err
		}
		if !view.Invalid {
			return nil
		}
		text := view.Message
		if text == "" {
			text = s.Catalog().Text(message.KeyInvalid)
		}
		if err := r.warn(ctx, text); err != nil {
			return err
		}
	}
}

func (r *Runner) ask(ctx context.Context, view wizard.FieldView) (string, error) {
	switch view.Kind {
	case form.KindCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: view.Label,
			Default: view.Value == "true",
		})
		if err != nil || !ok {
			return "", err
		}
		return "true", nil
	case form.KindSelect:
		options := append([]string{r.labels.NoSelection}, view.Options...)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      view.Label,
			Options:      options,
			DefaultIndex: indexOf(options[1:], view.Value) + 1,
		})
		if err != nil {
			return "", err
		}
		if idx <= 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: view.Label,
			Default: view.Value,
		})
	}
}

// reportStep prints the messages still attached to the step's fields, or the
// generic invalid text when the step fails without one.
func (r *Runner) reportStep(ctx context.Context, s *wizard.Session, name string) error {
	printed := false
	for _, step := range s.Steps() {
		if step.Name != name {
			continue
		}
		for _, field := range step.Fields {
			if field.Message == "" {
				continue
			}
			printed = true
			if err := r.warn(ctx, fmt.Sprintf("%s: %s", field.Label, field.Message)); err != nil {
				return err
			}
		}
	}
	if printed {
		return nil
	}
	return r.warn(ctx, s.Catalog().Text(message.KeyInvalid))
}

func (r *Runner) submit(ctx context.Context, s *wizard.Session) (wizard.OutcomeView, error) {
	if err := r.summary(ctx, s); err != nil {
		return s.Outcome(), err
	}
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: r.labels.Submit, Default: true})
	if err != nil {
		return s.Outcome(), err
	}
	if !ok {
		return s.Outcome(), ErrDeclined
	}

	for {
		outcome, err := s.Submit(ctx)
		if outcome.Text != "" {
			if perr := r.info(ctx, outcome.Text); perr != nil {
				return outcome, perr
			}
		}
		if err == nil {
			return outcome, nil
		}

		var subErr *submission.Error
		if !errors.As(err, &subErr) {
			return outcome, err
		}
		r.logger.Warn("submission failed", "snapshot", subErr.SnapshotID, "reason", outcome.Reason)

		retry, cerr := r.driver.Confirm(ctx, ConfirmConfig{Message: r.labels.Retry, Default: true})
		if cerr != nil {
			return outcome, cerr
		}
		if !retry {
			return outcome, err
		}
	}
}

func (r *Runner) summary(ctx context.Context, s *wizard.Session) error {
	if err := r.info(ctx, r.labels.Summary); err != nil {
		return err
	}
	for _, step := range s.Steps() {
		for _, field := range step.Fields {
			if field.Value == "" {
				continue
			}
			if err := r.info(ctx, fmt.Sprintf("  %s: %s", field.Label, field.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}
