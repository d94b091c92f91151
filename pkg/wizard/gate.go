package wizard

import (
	"errors"
)

// State is the advancement state of a step.
type State string

const (
	StatePending   State = "pending"
	StateReady     State = "ready"
	StateCompleted State = "completed"
)

// ErrStepNotReady is returned when advancing from a step that is not Ready.
var ErrStepNotReady = errors.New("wizard: step not ready")

// Gate is the per-step state machine.
type Gate struct {
	state State
}

// NewGate returns a Pending gate.
func NewGate() *Gate {
	return &Gate{state: StatePending}
}

// State returns the current state.
func (g *Gate) State() State {
	if g.state == "" {
		return StatePending
	}
	return g.state
}

// Evaluate feeds the group validity into the gate and reports whether the
// state changed. A valid group keeps a Completed gate Completed; an invalid
// group sends any gate back to Pending.
func (g *Gate) Evaluate(valid bool) bool {
	prev := g.State()
	next := StatePending
	switch {
	case valid && prev == StateCompleted:
		next = StateCompleted
	case valid:
		next = StateReady
	}
	g.state = next
	return next != prev
}

// Complete moves a Ready gate to Completed.
func (g *Gate) Complete() error {
	switch g.State() {
	case StateReady:
		g.state = StateCompleted
		return nil
	case StateCompleted:
		return nil
	default:
		return ErrStepNotReady
	}
}

// Reset returns the gate to Pending.
func (g *Gate) Reset() {
	g.state = StatePending
}
