package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-stepform/pkg/form"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// ErrInvalidDefinition wraps structural problems found while normalising or
// compiling a definition.
var ErrInvalidDefinition = errors.New("definition: invalid definition")

// Group rule kinds understood by Compile.
const (
	RuleMismatch = "mismatch"
	RuleAnyOf    = "anyOf"
)

// Definition is the declarative description of a step form.
type Definition struct {
	ID       string                      `json:"id" yaml:"id"`
	Title    string                      `json:"title,omitempty" yaml:"title,omitempty"`
	Endpoint string                      `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method   string                      `json:"method,omitempty" yaml:"method,omitempty"`
	Locale   string                      `json:"locale,omitempty" yaml:"locale,omitempty"`
	Steps    []Step                      `json:"steps" yaml:"steps"`
	Messages map[string]message.Messages `json:"messages,omitempty" yaml:"messages,omitempty"`
	Source   string                      `json:"-" yaml:"-"`
}

// Step is one wizard page backed by a single field group.
type Step struct {
	Name   string      `json:"name" yaml:"name"`
	Title  string      `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field     `json:"fields" yaml:"fields"`
	Rules  []GroupRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Field declares a field and its validators.
type Field struct {
	Name      string    `json:"name" yaml:"name"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind      form.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Initial   string    `json:"initial,omitempty" yaml:"initial,omitempty"`
	Options   []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Required  bool      `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength int       `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Email     bool      `json:"email,omitempty" yaml:"email,omitempty"`
	Pattern   string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// GroupRule declares a cross-field rule. Kind is RuleMismatch (exactly two
// fields, the second being the confirmation) or RuleAnyOf (at least one of
// the fields must be filled). Code defaults per kind.
type GroupRule struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Code   string   `json:"code,omitempty" yaml:"code,omitempty"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Compiled is a definition turned into runtime objects.
type Compiled struct {
	Definition Definition
	Form       *form.Form
	Titles     map[string]string
}

// Catalog builds the message catalog for locale, overlaying the messages the
// definition declares for that locale. An empty locale uses the definition's.
func (c *Compiled) Catalog(locale string, options ...message.CatalogOption) *message.Catalog {
	return c.Definition.Catalog(locale, options...)
}

// Catalog builds the message catalog for locale. See Compiled.Catalog.
func (d Definition) Catalog(locale string, options ...message.CatalogOption) *message.Catalog {
	if strings.TrimSpace(locale) == "" {
		locale = d.Locale
	}
	base := message.BaseLocale(locale)
	opts := make([]message.CatalogOption, 0, len(options)+1)
	for key, msgs := range d.Messages {
		if message.BaseLocale(key) == base {
			opts = append(opts, message.WithMessages(msgs))
		}
	}
	opts = append(opts, options...)
	return message.NewCatalog(base, opts...)
}

// FieldCount returns the number of declared fields across all steps.
func (d Definition) FieldCount() int {
	n := 0
	for _, step := range d.Steps {
		n += len(step.Fields)
	}
	return n
}

// Compile validates the definition and builds the form. Structural problems
// come back wrapped in ErrInvalidDefinition or form.ErrInvariant.
func (d Definition) Compile() (*Compiled, error) {
	if len(d.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s declares no steps", ErrInvalidDefinition, d.label())
	}

	groups := make([]*form.Group, 0, len(d.Steps))
	titles := make(map[string]string, len(d.Steps))
	for idx, step := range d.Steps {
		group, err := compileStep(step)
		if err != nil {
			return nil, fmt.Errorf("definition: %s step %d: %w", d.label(), idx, err)
		}
		groups = append(groups, group)
		if step.Title != "" {
			titles[step.Name] = step.Title
		}
	}

	f, err := form.New(groups...)
	if err != nil {
		return nil, fmt.Errorf("definition: %s: %w", d.label(), err)
	}
	return &Compiled{Definition: d, Form: f, Titles: titles}, nil
}

func (d Definition) label() string {
	switch {
	case d.ID != "" && d.Source != "":
		return fmt.Sprintf("%q (%s)", d.ID, d.Source)
	case d.ID != "":
		return fmt.Sprintf("%q", d.ID)
	case d.Source != "":
		return d.Source
	default:
		return "definition"
	}
}

func compileStep(step Step) (*form.Group, error) {
	specs := make([]form.FieldSpec, 0, len(step.Fields))
	for _, field := range step.Fields {
		rules, err := fieldRules(field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		specs = append(specs, form.FieldSpec{
			Name:    field.Name,
			Label:   field.Label,
			Kind:    field.Kind,
			Initial: field.Initial,
			Options: append([]string(nil), field.Options...),
			Rules:   rules,
		})
	}

	groupRules := make([]validation.GroupRule, 0, len(step.Rules))
	for _, raw := range step.Rules {
		rule, err := groupRule(raw)
		if err != nil {
			return nil, err
		}
		groupRules = append(groupRules, rule)
	}

	return form.NewGroup(step.Name, specs, groupRules...)
}

// fieldRules orders validators the way failures should be reported: presence
// first, then length, then format.
func fieldRules(field Field) ([]validation.Rule, error) {
	var rules []validation.Rule
	if field.Required {
		rules = append(rules, validation.Required())
	}
	if field.MinLength < 0 || field.MaxLength < 0 {
		return nil, fmt.Errorf("%w: negative length bound", ErrInvalidDefinition)
	}
	if field.MaxLength > 0 && field.MinLength > field.MaxLength {
		return nil, fmt.Errorf("%w: minLength %d exceeds maxLength %d", ErrInvalidDefinition, field.MinLength, field.MaxLength)
	}
	if field.MinLength > 0 {
		rules = append(rules, validation.MinLength(field.MinLength))
	}
	if field.MaxLength > 0 {
		rules = append(rules, validation.MaxLength(field.MaxLength))
	}
	if field.Email || field.Kind == form.KindEmail {
		rules = append(rules, validation.Email())
	}
	if field.Pattern != "" {
		rule, err := validation.Pattern(field.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func groupRule(raw GroupRule) (validation.GroupRule, error) {
	var rule validation.GroupRule
	switch raw.Kind {
	case RuleMismatch:
		if len(raw.Fields) != 2 {
			return rule, fmt.Errorf("%w: mismatch rule needs exactly two fields, got %d", ErrInvalidDefinition, len(raw.Fields))
		}
		rule = validation.Mismatch(raw.Fields[0], raw.Fields[1])
	case RuleAnyOf:
		if len(raw.Fields) == 0 {
			return rule, fmt.Errorf("%w: anyOf rule lists no fields", ErrInvalidDefinition)
		}
		fields := append([]string(nil), raw.Fields...)
		rule = validation.Aggregate(validation.Code("anyOf"), fields, func(values map[string]string) bool {
			for _, name := range fields {
				if values[name] != "" {
					return false
				}
			}
			return true
		})
	default:
		return rule, fmt.Errorf("%w: unknown group rule kind %q", ErrInvalidDefinition, raw.Kind)
	}
	if raw.Code != "" {
		rule = rule.WithCode(validation.Code(raw.Code))
	}
	return rule, nil
}
