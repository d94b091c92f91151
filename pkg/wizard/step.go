package wizard

import (
	"github.com/goliatone/go-stepform/pkg/form"
)

// Step binds a group to a position in the wizard.
type Step struct {
	title string
	group *form.Group
	gate  *Gate
}

func newStep(group *form.Group, title string) *Step {
	if title == "" {
		title = group.Name()
	}
	return &Step{title: title, group: group, gate: NewGate()}
}

// Name returns the group name.
func (s *Step) Name() string { return s.group.Name() }

// Title returns the display title.
func (s *Step) Title() string { return s.title }

// Group returns the underlying group.
func (s *Step) Group() *form.Group { return s.group }

// State returns the gate state.
func (s *Step) State() State { return s.gate.State() }

// Values returns the group's current values.
func (s *Step) Values() map[string]string { return s.group.Values() }

// Eligible reports whether the step may be submitted: its gate is Ready or
// Completed and its group is valid right now.
func (s *Step) Eligible() bool {
	switch s.gate.State() {
	case StateReady, StateCompleted:
		return s.group.Valid()
	default:
		return false
	}
}
