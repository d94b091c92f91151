package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-stepform/pkg/validation"
)

// Kind is a presentation hint describing how a field collects its value.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindDate     Kind = "date"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
)

// FieldSpec declares a field. Rules run in declaration order.
type FieldSpec struct {
	Name    string
	Label   string
	Kind    Kind
	Initial string
	Options []string
	Rules   []validation.Rule
}

// Field is a single named value slot with interaction flags.
type Field struct {
	spec     FieldSpec
	value    string
	touched  bool
	dirty    bool
	failures validation.Failures
}

// NewField validates spec and returns a field holding its initial value.
func NewField(spec FieldSpec) (*Field, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return nil, ErrEmptyName
	}
	if spec.Kind == "" {
		spec.Kind = KindText
	}
	for _, rule := range spec.Rules {
		if err := rule.Check(); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidRule, spec.Name, err)
		}
	}
	spec.Rules = append([]validation.Rule(nil), spec.Rules...)
	spec.Options = append([]string(nil), spec.Options...)

	f := &Field{spec: spec}
	f.Reset()
	return f, nil
}

// Name returns the field name.
func (f *Field) Name() string { return f.spec.Name }

// Label returns the display label, falling back to the name.
func (f *Field) Label() string {
	if f.spec.Label != "" {
		return f.spec.Label
	}
	return f.spec.Name
}

// Kind returns the presentation hint.
func (f *Field) Kind() Kind { return f.spec.Kind }

// Options returns the selectable values for KindSelect fields.
func (f *Field) Options() []string { return append([]string(nil), f.spec.Options...) }

// Initial returns the value the field was created with.
func (f *Field) Initial() string { return f.spec.Initial }

// Value returns the current value.
func (f *Field) Value() string { return f.value }

// Touched reports whether the field has lost focus at least once.
func (f *Field) Touched() bool { return f.touched }

// Dirty reports whether the value has ever differed from its initial value.
func (f *Field) Dirty() bool { return f.dirty }

// Rules returns the field's rules.
func (f *Field) Rules() []validation.Rule {
	return append([]validation.Rule(nil), f.spec.Rules...)
}

// SetValue stores v, marks the field dirty when v differs from the initial
// value and recomputes the failure set. Dirty never clears here.
func (f *Field) SetValue(v string) {
	f.value = v
	if v != f.spec.Initial {
		f.dirty = true
	}
	f.Validate()
}

// MarkTouched records that the field lost focus. Idempotent.
func (f *Field) MarkTouched() {
	f.touched = true
}

// Validate recomputes and returns the failing codes for the current value.
func (f *Field) Validate() validation.Failures {
	f.failures = validation.Evaluate(f.value, f.spec.Rules)
	return f.Failures()
}

// Failures returns the failing codes as of the last value change.
func (f *Field) Failures() validation.Failures {
	return append(validation.Failures(nil), f.failures...)
}

// Invalid reports whether any rule is failing.
func (f *Field) Invalid() bool {
	return !f.failures.Empty()
}

// Reset restores the initial value and clears both interaction flags.
func (f *Field) Reset() {
	f.value = f.spec.Initial
	f.touched = false
	f.dirty = false
	f.Validate()
}
