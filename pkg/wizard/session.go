package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-stepform/internal/logger"
	"github.com/goliatone/go-stepform/pkg/form"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/submission"
)

var (
	// ErrFirstStep is returned by Back on the first step.
	ErrFirstStep = errors.New("wizard: already at the first step")
	// ErrNoCoordinator is returned by Submit when no coordinator is set.
	ErrNoCoordinator = errors.New("wizard: submission coordinator not configured")
)

// FieldView is the presentation-facing state of a field.
type FieldView struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    form.Kind `json:"kind"`
	Options []string  `json:"options,omitempty"`
	Value   string    `json:"value"`
	Touched bool      `json:"touched"`
	Dirty   bool      `json:"dirty"`
	Invalid bool      `json:"invalid"`
	Message string    `json:"message,omitempty"`
}

// StepView is the presentation-facing state of a step.
type StepView struct {
	Name    string      `json:"name"`
	Title   string      `json:"title"`
	State   State       `json:"state"`
	Current bool        `json:"current"`
	Fields  []FieldView `json:"fields"`
}

// OutcomeView pairs the last submission outcome with its display text.
type OutcomeView struct {
	submission.Outcome
	Text string `json:"text,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithResolver sets the message resolver.
func WithResolver(r *message.Resolver) Option {
	return func(s *Session) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithCoordinator sets the submission coordinator.
func WithCoordinator(c *submission.Coordinator) Option {
	return func(s *Session) {
		s.coordinator = c
	}
}

// WithStepTitles sets display titles keyed by group name.
func WithStepTitles(titles map[string]string) Option {
	return func(s *Session) {
		s.titles = titles
	}
}

// WithLogger sets the logger used for step transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session dispatches user events against a form and keeps derived state
// (messages, gates) in step with it. A Session is not safe for concurrent
// use; events are expected one at a time from a single goroutine.
type Session struct {
	form        *form.Form
	steps       []*Step
	current     int
	resolver    *message.Resolver
	coordinator *submission.Coordinator
	titles      map[string]string
	logger      *slog.Logger
	messages    map[string]message.Message
}

// NewSession creates a session with one step per form group, in order.
func NewSession(f *form.Form, options ...Option) (*Session, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: form is nil", form.ErrInvariant)
	}
	s := &Session{
		form:     f,
		resolver: message.NewResolver(nil),
		logger:   logger.Discard(),
		messages: make(map[string]message.Message),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	for _, group := range f.Groups() {
		s.steps = append(s.steps, newStep(group, s.titles[group.Name()]))
	}
	s.settle()
	return s, nil
}

// Catalog returns the message catalog used for field and outcome texts.
func (s *Session) Catalog() *message.Catalog { return s.resolver.Catalog() }

// Form returns the underlying form.
func (s *Session) Form() *form.Form { return s.form }

// Focus is accepted for symmetry with Blur; focus alone changes no state.
func (s *Session) Focus(name string) error {
	_, _, err := s.form.Lookup(name)
	return err
}

// Blur marks the field touched.
func (s *Session) Blur(name string) error {
	_, field, err := s.form.Lookup(name)
	if err != nil {
		return err
	}
	field.MarkTouched()
	s.settle()
	return nil
}

// SetValue edits a field value.
func (s *Session) SetValue(name, value string) error {
	_, field, err := s.form.Lookup(name)
	if err != nil {
		return err
	}
	field.SetValue(value)
	s.settle()
	return nil
}

// Advance completes the current step and moves to the next one. The last
// step is completed in place.
func (s *Session) Advance() error {
	s.settle()
	step := s.steps[s.current]
	if !step.group.Valid() {
		return fmt.Errorf("%w: %q is invalid", ErrStepNotReady, step.Name())
	}
	if err := step.gate.Complete(); err != nil {
		return fmt.Errorf("%w: %q is %s", err, step.Name(), step.State())
	}
	s.logger.Debug("step completed", "step", step.Name())
	if s.current < len(s.steps)-1 {
		s.current++
	}
	return nil
}

// Back moves to the previous step without touching gate states.
func (s *Session) Back() error {
	if s.current == 0 {
		return ErrFirstStep
	}
	s.current--
	return nil
}

// Reset restores every field and gate and returns to the first step.
func (s *Session) Reset() {
	s.form.Reset()
	for _, step := range s.steps {
		step.gate.Reset()
	}
	s.current = 0
	if s.coordinator != nil {
		s.coordinator.Reset()
	}
	s.settle()
	s.logger.Debug("session reset")
}

// Submit hands every step to the coordinator. The form data is kept whatever
// the outcome.
func (s *Session) Submit(ctx context.Context) (OutcomeView, error) {
	if s.coordinator == nil {
		return OutcomeView{}, ErrNoCoordinator
	}
	s.settle()
	steps := make([]submission.Step, 0, len(s.steps))
	for _, step := range s.steps {
		steps = append(steps, step)
	}
	outcome, err := s.coordinator.Submit(ctx, steps)
	if err == nil {
		// The coordinator only sends when every step is Ready or Completed.
		last := s.steps[len(s.steps)-1]
		if cerr := last.gate.Complete(); cerr != nil {
			s.logger.Debug("last step not completed after submit", "step", last.Name(), "error", cerr)
		}
	}
	return s.outcomeView(outcome), err
}

// Outcome returns the last submission outcome.
func (s *Session) Outcome() OutcomeView {
	if s.coordinator == nil {
		return OutcomeView{Outcome: submission.Outcome{Status: submission.StatusIdle}}
	}
	return s.outcomeView(s.coordinator.Outcome())
}

// CurrentIndex returns the position of the current step.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the current step view.
func (s *Session) Current() StepView {
	return s.stepView(s.current)
}

// Steps returns a view of every step.
func (s *Session) Steps() []StepView {
	out := make([]StepView, 0, len(s.steps))
	for i := range s.steps {
		out = append(out, s.stepView(i))
	}
	return out
}

// Field returns the view of a single field.
func (s *Session) Field(name string) (FieldView, error) {
	_, field, err := s.form.Lookup(name)
	if err != nil {
		return FieldView{}, err
	}
	return s.fieldView(field), nil
}

// Message returns the resolved message for a field.
func (s *Session) Message(name string) string {
	return s.messages[name].Text
}

// settle runs the derived-state chain after a mutation: failures, then
// messages, then gates.
func (s *Session) settle() {
	for _, step := range s.steps {
		step.group.Validate()
	}
	for _, step := range s.steps {
		for _, field := range step.group.Fields() {
			s.messages[field.Name()] = s.resolver.Resolve(field, step.group)
		}
	}
	for _, step := range s.steps {
		prev := step.State()
		if step.gate.Evaluate(step.group.Valid()) {
			s.logger.Debug("step gate changed", "step", step.Name(), "from", prev, "to", step.State())
		}
	}
}

func (s *Session) stepView(i int) StepView {
	step := s.steps[i]
	view := StepView{
		Name:    step.Name(),
		Title:   step.Title(),
		State:   step.State(),
		Current: i == s.current,
	}
	for _, field := range step.group.Fields() {
		view.Fields = append(view.Fields, s.fieldView(field))
	}
	return view
}

func (s *Session) fieldView(field *form.Field) FieldView {
	return FieldView{
		Name:    field.Name(),
		Label:   field.Label(),
		Kind:    field.Kind(),
		Options: field.Options(),
		Value:   field.Value(),
		Touched: field.Touched(),
		Dirty:   field.Dirty(),
		Invalid: field.Invalid(),
		Message: s.messages[field.Name()].Text,
	}
}

func (s *Session) outcomeView(outcome submission.Outcome) OutcomeView {
	view := OutcomeView{Outcome: outcome}
	catalog := s.resolver.Catalog()
	switch outcome.Status {
	case submission.StatusSucceeded:
		view.Text = catalog.Text(message.KeySubmitted)
	case submission.StatusFailed:
		view.Text = catalog.Text(message.KeySubmitFailed)
	}
	return view
}
