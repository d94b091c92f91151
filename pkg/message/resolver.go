package message

import (
	"github.com/goliatone/go-stepform/pkg/validation"
)

// FieldState is the field state the resolver reads.
type FieldState interface {
	Name() string
	Touched() bool
	Dirty() bool
	Failures() validation.Failures
}

// GroupState is the group state the resolver reads.
type GroupState interface {
	Failures() validation.Failures
	FieldTouched(name string) bool
}

// Message is the resolved output. Rule is the 1-based priority rule that
// produced it, 0 when no message applies.
type Message struct {
	Key  Key             `json:"key,omitempty"`
	Code validation.Code `json:"code,omitempty"`
	Text string          `json:"text"`
	Rule int             `json:"rule,omitempty"`
}

// Empty reports whether no message is shown.
func (m Message) Empty() bool {
	return m.Text == ""
}

// Policy toggles optional resolver behaviour.
type Policy struct {
	// RevealRequiredOnTouch shows the invalid message for a touched but
	// pristine field whose only problem is a missing value.
	RevealRequiredOnTouch bool
}

// Resolver applies the priority rules against a catalog.
type Resolver struct {
	catalog *Catalog
	policy  Policy
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPolicy overrides the default policy.
func WithPolicy(p Policy) ResolverOption {
	return func(r *Resolver) {
		r.policy = p
	}
}

// NewResolver builds a resolver. A nil catalog uses the English defaults.
func NewResolver(catalog *Catalog, options ...ResolverOption) *Resolver {
	if catalog == nil {
		catalog = NewCatalog(defaultLocale)
	}
	r := &Resolver{catalog: catalog}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Catalog returns the catalog in use.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Resolve picks at most one message for field. group may be nil for fields
// that do not belong to a group with cross-field rules.
func (r *Resolver) Resolve(field FieldState, group GroupState) Message {
	if field == nil {
		return Message{}
	}
	failures := field.Failures()

	if field.Dirty() && (failures.HasClass(validation.ClassRequired) || failures.HasClass(validation.ClassFormat)) {
		return r.invalid(failures, 1)
	}

	if !failures.Empty() {
		revealed := r.policy.RevealRequiredOnTouch && field.Touched() && failures.HasClass(validation.ClassRequired)
		if field.Dirty() || revealed {
			return r.invalid(failures, 2)
		}
	}

	if group == nil {
		return Message{}
	}
	groupFailures := group.Failures()

	for _, failure := range groupFailures {
		if failure.Class != validation.ClassMismatch || !failure.Involves(field.Name()) {
			continue
		}
		if !group.FieldTouched(failure.Dependent()) {
			continue
		}
		text := r.catalog.CodeText(failure.Code)
		if text == "" {
			text = r.catalog.Text(KeyMismatch)
		}
		return Message{Key: KeyMismatch, Code: failure.Code, Text: text, Rule: 3}
	}

	for _, failure := range groupFailures {
		if failure.Class == validation.ClassMismatch || !failure.Involves(field.Name()) {
			continue
		}
		if !r.catalog.HasCode(failure.Code) {
			continue
		}
		return Message{Code: failure.Code, Text: r.catalog.CodeText(failure.Code), Rule: 4}
	}

	return Message{}
}

func (r *Resolver) invalid(failures validation.Failures, rule int) Message {
	var code validation.Code
	if len(failures) > 0 {
		code = failures[0].Code
	}
	return Message{Key: KeyInvalid, Code: code, Text: r.catalog.Text(KeyInvalid), Rule: rule}
}
