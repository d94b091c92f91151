package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Code tags a failing rule, e.g. "required" or "emailMismatch".
type Code string

// Class groups codes by the kind of problem they describe.
type Class string

const (
	ClassRequired   Class = "required"
	ClassFormat     Class = "format"
	ClassConstraint Class = "constraint"
	ClassMismatch   Class = "mismatch"
	ClassAggregate  Class = "aggregate"
)

const (
	CodeRequired  Code = "required"
	CodeMinLength Code = "minLength"
	CodeMaxLength Code = "maxLength"
	CodeEmail     Code = "email"
	CodePattern   Code = "pattern"
)

// ErrInvalidRule reports a misconfigured rule: empty code, missing predicate
// or a group rule without the fields it compares.
var ErrInvalidRule = errors.New("validation: invalid rule")

const (
	emailMaxLength      = "254"
	emailLocalMaxLength = "64"
	unbounded           = "2147483647"
)

// Rule is a pure predicate over a single field value. Fails returns true when
// the value violates the rule.
type Rule struct {
	Code   Code
	Class  Class
	Params map[string]string
	Fails  func(value string) bool
}

// GroupRule is a pure predicate over the values of a whole group. Fields names
// the inputs the predicate reads, in order.
type GroupRule struct {
	Code   Code
	Class  Class
	Fields []string
	Fails  func(values map[string]string) bool
}

// Evaluate runs every rule against value in declaration order and returns the
// full set of failing codes.
func Evaluate(value string, rules []Rule) Failures {
	var out Failures
	for _, rule := range rules {
		if rule.Fails == nil || !rule.Fails(value) {
			continue
		}
		out = out.Add(Failure{Code: rule.Code, Class: rule.Class})
	}
	return out
}

// EvaluateGroup runs every group rule against values in declaration order.
// values is read as-is at call time; callers pass the current field values.
func EvaluateGroup(values map[string]string, rules []GroupRule) Failures {
	var out Failures
	for _, rule := range rules {
		if rule.Fails == nil || !rule.Fails(values) {
			continue
		}
		out = out.Add(Failure{
			Code:   rule.Code,
			Class:  rule.Class,
			Fields: append([]string(nil), rule.Fields...),
		})
	}
	return out
}

// Check verifies a rule is usable.
func (r Rule) Check() error {
	if strings.TrimSpace(string(r.Code)) == "" {
		return fmt.Errorf("%w: empty code", ErrInvalidRule)
	}
	if r.Fails == nil {
		return fmt.Errorf("%w: rule %q has no predicate", ErrInvalidRule, r.Code)
	}
	return nil
}

// Check verifies a group rule is usable.
func (r GroupRule) Check() error {
	if strings.TrimSpace(string(r.Code)) == "" {
		return fmt.Errorf("%w: empty code", ErrInvalidRule)
	}
	if r.Fails == nil {
		return fmt.Errorf("%w: group rule %q has no predicate", ErrInvalidRule, r.Code)
	}
	if r.Class == ClassMismatch && len(r.Fields) != 2 {
		return fmt.Errorf("%w: mismatch rule %q must compare two fields", ErrInvalidRule, r.Code)
	}
	return nil
}

// WithCode returns a copy of r tagged with code.
func (r GroupRule) WithCode(code Code) GroupRule {
	r.Code = code
	return r
}

// Required fails when the value is empty.
func Required() Rule {
	return Rule{
		Code:  CodeRequired,
		Class: ClassRequired,
		Fails: func(value string) bool {
			return value == ""
		},
	}
}

// MinLength fails when a present value is shorter than n runes. Empty values
// pass; pair with Required to reject them.
func MinLength(n int) Rule {
	return Rule{
		Code:   CodeMinLength,
		Class:  ClassConstraint,
		Params: map[string]string{"value": strconv.Itoa(n)},
		Fails: func(value string) bool {
			return value != "" && !govalidator.StringLength(value, strconv.Itoa(n), unbounded)
		},
	}
}

// MaxLength fails when a value is longer than n runes.
func MaxLength(n int) Rule {
	return Rule{
		Code:   CodeMaxLength,
		Class:  ClassConstraint,
		Params: map[string]string{"value": strconv.Itoa(n)},
		Fails: func(value string) bool {
			return !govalidator.StringLength(value, "0", strconv.Itoa(n))
		},
	}
}

// Email fails when a present value is not a well-formed address.
func Email() Rule {
	return Rule{
		Code:  CodeEmail,
		Class: ClassFormat,
		Fails: func(value string) bool {
			return value != "" && !IsEmail(value)
		},
	}
}

// IsEmail reports whether value is a well-formed address with at most 254
// runes overall and 64 in the local part.
func IsEmail(value string) bool {
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return false
	}
	return govalidator.StringLength(value, "3", emailMaxLength) &&
		govalidator.StringLength(value[:at], "1", emailLocalMaxLength) &&
		govalidator.IsEmail(value)
}

// Pattern fails when a present value does not match expr. The expression is
// anchored to the whole value.
func Pattern(expr string) (Rule, error) {
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") {
		anchored += "$"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern %q: %v", ErrInvalidRule, expr, err)
	}
	return Rule{
		Code:   CodePattern,
		Class:  ClassFormat,
		Params: map[string]string{"pattern": expr},
		Fails: func(value string) bool {
			return value != "" && !re.MatchString(value)
		},
	}, nil
}

// MustPattern is Pattern that panics on an invalid expression.
func MustPattern(expr string) Rule {
	rule, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return rule
}

// Mismatch fails iff both a and b are present and differ. Two empty values are
// equal. The code defaults to a+"Mismatch" (e.g. "emailMismatch").
func Mismatch(a, b string) GroupRule {
	return GroupRule{
		Code:   Code(a + "Mismatch"),
		Class:  ClassMismatch,
		Fields: []string{a, b},
		Fails: func(values map[string]string) bool {
			left, right := values[a], values[b]
			return left != "" && right != "" && left != right
		},
	}
}

// Aggregate wraps an arbitrary group predicate under code.
func Aggregate(code Code, fields []string, fails func(values map[string]string) bool) GroupRule {
	return GroupRule{
		Code:   code,
		Class:  ClassAggregate,
		Fields: append([]string(nil), fields...),
		Fails:  fails,
	}
}
