package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-stepform/pkg/validation"
)

// Report is the outcome of validating a Group: per-field failures keyed by
// field name plus the group-level failures.
type Report struct {
	Fields map[string]validation.Failures
	Group  validation.Failures
}

// Valid reports whether the report holds no failures at all.
func (r Report) Valid() bool {
	if !r.Group.Empty() {
		return false
	}
	for _, failures := range r.Fields {
		if !failures.Empty() {
			return false
		}
	}
	return true
}

// Group is an ordered, named collection of fields plus cross-field rules.
type Group struct {
	name   string
	order  []string
	fields map[string]*Field
	rules  []validation.GroupRule
}

// NewGroup builds a group. Field names must be unique and every group rule
// must reference fields that exist in the group.
func NewGroup(name string, specs []FieldSpec, rules ...validation.GroupRule) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyGroup, name)
	}

	g := &Group{
		name:   name,
		fields: make(map[string]*Field, len(specs)),
	}
	for _, spec := range specs {
		field, err := NewField(spec)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		if _, exists := g.fields[field.Name()]; exists {
			return nil, fmt.Errorf("%w: %q in group %q", ErrDuplicateField, field.Name(), name)
		}
		g.fields[field.Name()] = field
		g.order = append(g.order, field.Name())
	}

	for _, rule := range rules {
		if err := rule.Check(); err != nil {
			return nil, fmt.Errorf("%w: group %q: %v", ErrInvalidRule, name, err)
		}
		for _, ref := range rule.Fields {
			if _, ok := g.fields[ref]; !ok {
				return nil, fmt.Errorf("%w: %q in rule %q of group %q", ErrRuleReference, ref, rule.Code, name)
			}
		}
		rule.Fields = append([]string(nil), rule.Fields...)
		g.rules = append(g.rules, rule)
	}

	return g, nil
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Names lists field names in declaration order.
func (g *Group) Names() []string { return append([]string(nil), g.order...) }

// Fields returns the fields in declaration order.
func (g *Group) Fields() []*Field {
	out := make([]*Field, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.fields[name])
	}
	return out
}

// Field looks up a field by name.
func (g *Group) Field(name string) (*Field, bool) {
	field, ok := g.fields[name]
	return field, ok
}

// Rules returns the group-level rules.
func (g *Group) Rules() []validation.GroupRule {
	return append([]validation.GroupRule(nil), g.rules...)
}

// Values returns a fresh map of the current field values.
func (g *Group) Values() map[string]string {
	out := make(map[string]string, len(g.order))
	for _, name := range g.order {
		out[name] = g.fields[name].Value()
	}
	return out
}

// SetValue updates a field value and re-runs its rules.
func (g *Group) SetValue(name, value string) error {
	field, ok := g.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q in group %q", ErrUnknownField, name, g.name)
	}
	field.SetValue(value)
	return nil
}

// MarkTouched flags a field as touched.
func (g *Group) MarkTouched(name string) error {
	field, ok := g.fields[name]
	if !ok {
		return fmt.Errorf("%w: %q in group %q", ErrUnknownField, name, g.name)
	}
	field.MarkTouched()
	return nil
}

// FieldTouched reports whether the named field is touched. Unknown names are
// reported as untouched.
func (g *Group) FieldTouched(name string) bool {
	field, ok := g.fields[name]
	return ok && field.Touched()
}

// Failures evaluates the group rules against the current field values.
func (g *Group) Failures() validation.Failures {
	return validation.EvaluateGroup(g.Values(), g.rules)
}

// Validate recomputes every field's failures and the group-level failures.
func (g *Group) Validate() Report {
	report := Report{Fields: make(map[string]validation.Failures, len(g.order))}
	for _, name := range g.order {
		report.Fields[name] = g.fields[name].Validate()
	}
	report.Group = g.Failures()
	return report
}

// Valid is true iff no field has failures and no group rule fails.
func (g *Group) Valid() bool {
	for _, name := range g.order {
		if g.fields[name].Invalid() {
			return false
		}
	}
	return g.Failures().Empty()
}

// Reset restores every field to its initial state.
func (g *Group) Reset() {
	for _, name := range g.order {
		g.fields[name].Reset()
	}
}
