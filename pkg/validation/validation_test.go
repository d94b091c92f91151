package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/validation"
)

func TestEvaluate_ReportsEveryFailingRule(t *testing.T) {
	rules := []validation.Rule{
		validation.Required(),
		validation.MinLength(3),
		validation.MaxLength(1),
	}

	got := validation.Evaluate("ab", rules).Codes()
	want := []validation.Code{validation.CodeMinLength, validation.CodeMaxLength}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}

	got = validation.Evaluate("", rules).Codes()
	want = []validation.Code{validation.CodeRequired}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("empty value failures mismatch (-want +got):\n%s", diff)
	}
}

func TestRules_PresentOnlySemantics(t *testing.T) {
	pattern := validation.MustPattern(`[0-9]*`)

	cases := []struct {
		name  string
		rule  validation.Rule
		value string
		fails bool
	}{
		{"required empty", validation.Required(), "", true},
		{"required whitespace", validation.Required(), " ", false},
		{"minLength empty", validation.MinLength(2), "", false},
		{"minLength short", validation.MinLength(2), "a", true},
		{"minLength runes", validation.MinLength(2), "äö", false},
		{"maxLength long", validation.MaxLength(5), "123456", true},
		{"maxLength exact", validation.MaxLength(5), "12345", false},
		{"email empty", validation.Email(), "", false},
		{"email valid", validation.Email(), "a@b.com", false},
		{"email no domain dot", validation.Email(), "a@b", true},
		{"email long local part", validation.Email(), strings.Repeat("a", 65) + "@b.com", true},
		{"email max local part", validation.Email(), strings.Repeat("a", 64) + "@b.com", false},
		{"email too long", validation.Email(), "a@" + strings.Repeat("b", 250) + ".com", true},
		{"email missing at", validation.Email(), "ab.com", true},
		{"email double at", validation.Email(), "a@@b.com", true},
		{"email trailing dot", validation.Email(), "a@b.", true},
		{"pattern empty", pattern, "", false},
		{"pattern digits", pattern, "0815", false},
		{"pattern letters", pattern, "08a15", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.Fails(tc.value); got != tc.fails {
				t.Fatalf("Fails(%q) = %v, want %v", tc.value, got, tc.fails)
			}
		})
	}
}

func TestMismatch_SymmetricAndIgnoresEmpty(t *testing.T) {
	forward := validation.Mismatch("email", "confirmEmail")
	backward := validation.Mismatch("confirmEmail", "email")

	cases := []struct {
		a, b  string
		fails bool
	}{
		{"", "", false},
		{"a@b.com", "", false},
		{"", "a@b.com", false},
		{"a@b.com", "a@b.com", false},
		{"a@b.com", "a@c.com", true},
	}

	for _, tc := range cases {
		values := map[string]string{"email": tc.a, "confirmEmail": tc.b}
		if got := forward.Fails(values); got != tc.fails {
			t.Fatalf("mismatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.fails)
		}
		if forward.Fails(values) != backward.Fails(values) {
			t.Fatalf("mismatch not symmetric for (%q, %q)", tc.a, tc.b)
		}
	}

	if forward.Code != "emailMismatch" {
		t.Fatalf("expected default code emailMismatch, got %q", forward.Code)
	}
}

func TestEvaluateGroup_CarriesFields(t *testing.T) {
	rules := []validation.GroupRule{validation.Mismatch("email", "confirmEmail")}
	got := validation.EvaluateGroup(map[string]string{"email": "a@b.com", "confirmEmail": "a@c.com"}, rules)

	want := validation.Failures{{
		Code:   "emailMismatch",
		Class:  validation.ClassMismatch,
		Fields: []string{"email", "confirmEmail"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("group failures mismatch (-want +got):\n%s", diff)
	}
	if got[0].Dependent() != "confirmEmail" {
		t.Fatalf("expected confirmEmail as dependent, got %q", got[0].Dependent())
	}
	if !got[0].Involves("email") || got[0].Involves("firstName") {
		t.Fatalf("unexpected Involves result for %+v", got[0])
	}
}

func TestRuleCheck(t *testing.T) {
	if err := validation.Required().Check(); err != nil {
		t.Fatalf("required rule: %v", err)
	}
	if err := (validation.Rule{Code: "custom"}).Check(); !errors.Is(err, validation.ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule for missing predicate, got %v", err)
	}
	bad := validation.Mismatch("a", "b")
	bad.Fields = []string{"a"}
	if err := bad.Check(); !errors.Is(err, validation.ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule for one-sided mismatch, got %v", err)
	}
	if _, err := validation.Pattern("("); !errors.Is(err, validation.ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule for bad pattern, got %v", err)
	}
}

func TestFailuresUnion(t *testing.T) {
	a := validation.Failures{{Code: "required", Class: validation.ClassRequired}}
	b := validation.Failures{
		{Code: "required", Class: validation.ClassRequired},
		{Code: "emailMismatch", Class: validation.ClassMismatch},
	}
	got := a.Union(b).Codes()
	want := []validation.Code{"required", "emailMismatch"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("union mismatch (-want +got):\n%s", diff)
	}
	if !a.Union(b).HasClass(validation.ClassMismatch) {
		t.Fatalf("expected mismatch class in union")
	}
}
