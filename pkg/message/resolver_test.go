package message_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/form"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/validation"
)

func newGroup(t *testing.T) *form.Group {
	t.Helper()
	group, err := form.NewGroup("personal", []form.FieldSpec{
		{Name: "firstName", Rules: []validation.Rule{validation.Required(), validation.MinLength(2)}},
		{Name: "email", Rules: []validation.Rule{validation.Required(), validation.Email()}},
		{Name: "confirmEmail", Rules: []validation.Rule{validation.Required(), validation.Email()}},
	}, validation.Mismatch("email", "confirmEmail"))
	if err != nil {
		t.Fatalf("new group: %v", err)
	}
	return group
}

func field(t *testing.T, g *form.Group, name string) *form.Field {
	t.Helper()
	f, ok := g.Field(name)
	if !ok {
		t.Fatalf("missing field %s", name)
	}
	return f
}

func TestResolve_EmailMismatchWalkthrough(t *testing.T) {
	group := newGroup(t)
	resolver := message.NewResolver(message.NewCatalog("en"))
	confirm := field(t, group, "confirmEmail")

	if got := resolver.Resolve(confirm, group); !got.Empty() {
		t.Fatalf("initial state should show nothing, got %+v", got)
	}
	if group.Failures().Has("emailMismatch") {
		t.Fatalf("empty emails must not mismatch")
	}

	field(t, group, "email").SetValue("a@b.com")
	confirm.SetValue("a@c.com")
	if got := resolver.Resolve(confirm, group); !got.Empty() {
		t.Fatalf("mismatch must wait for the confirmation field to be touched, got %+v", got)
	}

	confirm.MarkTouched()
	got := resolver.Resolve(confirm, group)
	want := message.Message{Key: message.KeyMismatch, Code: "emailMismatch", Text: "values do not match", Rule: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch message (-want +got):\n%s", diff)
	}

	if again := resolver.Resolve(confirm, group); again != got {
		t.Fatalf("resolve is not idempotent: %+v vs %+v", got, again)
	}

	confirm.SetValue("a@b.com")
	if got := resolver.Resolve(confirm, group); !got.Empty() {
		t.Fatalf("matching emails should clear the message, got %+v", got)
	}
}

func TestResolve_TouchedPristineFieldStaysQuiet(t *testing.T) {
	group := newGroup(t)
	resolver := message.NewResolver(message.NewCatalog("en"))
	first := field(t, group, "firstName")

	first.MarkTouched()
	if got := resolver.Resolve(first, group); !got.Empty() {
		t.Fatalf("touched pristine field should show nothing, got %+v", got)
	}

	first.SetValue("J")
	first.SetValue("")
	got := resolver.Resolve(first, group)
	if got.Text != "invalid value" || got.Code != validation.CodeRequired || got.Rule != 1 {
		t.Fatalf("expected invalid value from rule 1, got %+v", got)
	}
}

func TestResolve_RevealRequiredOnTouchPolicy(t *testing.T) {
	group := newGroup(t)
	resolver := message.NewResolver(message.NewCatalog("en"), message.WithPolicy(message.Policy{RevealRequiredOnTouch: true}))
	first := field(t, group, "firstName")

	first.MarkTouched()
	got := resolver.Resolve(first, group)
	if got.Key != message.KeyInvalid || got.Rule != 2 {
		t.Fatalf("expected rule 2 invalid message, got %+v", got)
	}
}

func TestResolve_DirtyConstraintFailureUsesRuleTwo(t *testing.T) {
	group := newGroup(t)
	resolver := message.NewResolver(nil)
	first := field(t, group, "firstName")

	first.SetValue("J")
	got := resolver.Resolve(first, group)
	if got.Rule != 2 || got.Code != validation.CodeMinLength {
		t.Fatalf("expected minLength via rule 2, got %+v", got)
	}
}

func TestResolve_FieldFailureOutranksMismatch(t *testing.T) {
	group := newGroup(t)
	resolver := message.NewResolver(message.NewCatalog("de"))
	confirm := field(t, group, "confirmEmail")

	field(t, group, "email").SetValue("a@b.com")
	confirm.SetValue("not-an-email")
	confirm.MarkTouched()

	got := resolver.Resolve(confirm, group)
	if got.Key != message.KeyInvalid || got.Text != "Ungültige Eingabe" {
		t.Fatalf("expected localized invalid message, got %+v", got)
	}
}

func TestResolve_AggregateCodeMessage(t *testing.T) {
	group, err := form.NewGroup("consent", []form.FieldSpec{
		{Name: "acceptedFirst"},
		{Name: "acceptedSecond"},
	}, validation.Aggregate("consentMissing", []string{"acceptedFirst", "acceptedSecond"}, func(values map[string]string) bool {
		return values["acceptedFirst"] == "" && values["acceptedSecond"] == ""
	}))
	if err != nil {
		t.Fatalf("new group: %v", err)
	}

	plain := message.NewResolver(message.NewCatalog("en"))
	target := field(t, group, "acceptedFirst")
	if got := plain.Resolve(target, group); !got.Empty() {
		t.Fatalf("unknown aggregate code should not produce a message, got %+v", got)
	}

	catalog := message.NewCatalog("en", message.WithMessages(message.Messages{
		Codes: map[validation.Code]string{"consentMissing": "please accept at least one"},
	}))
	got := message.NewResolver(catalog).Resolve(target, group)
	if got.Text != "please accept at least one" || got.Rule != 4 {
		t.Fatalf("expected code-specific message, got %+v", got)
	}
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if text, ok := m[key]; ok {
		return text, nil
	}
	return "", errors.New("missing translation")
}

func TestCatalog_TranslatorAndFallbacks(t *testing.T) {
	catalog := message.NewCatalog("de-DE",
		message.WithTranslator(mapTranslator{"stepform.mismatch": "Stimmt nicht"}),
	)
	if catalog.Locale() != "de" {
		t.Fatalf("expected base locale de, got %q", catalog.Locale())
	}
	if got := catalog.Text(message.KeyMismatch); got != "Stimmt nicht" {
		t.Fatalf("expected translated mismatch, got %q", got)
	}
	if got := catalog.Text(message.KeyInvalid); got != "Ungültige Eingabe" {
		t.Fatalf("expected fallback invalid text, got %q", got)
	}

	var missed []string
	catalog = message.NewCatalog("fr",
		message.WithMissingTranslationHandler(func(_, key, fallback string, _ error) string {
			missed = append(missed, key)
			return fallback
		}),
	)
	if got := catalog.Text(message.KeyInvalid); got != "invalid value" {
		t.Fatalf("unknown locale should fall back to English, got %q", got)
	}
	if diff := cmp.Diff([]string{"stepform.invalid"}, missed); diff != "" {
		t.Fatalf("missing handler calls (-want +got):\n%s", diff)
	}
}
