package stepform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/pkg/submission"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

func TestNewSession_DefaultContactForm(t *testing.T) {
	var got map[string]string
	session, err := stepform.NewSession(stepform.DefaultDefinition(),
		stepform.WithTransport(submission.TransportFunc(func(_ context.Context, snap submission.Snapshot) error {
			got = snap.Values()
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	steps := session.Steps()
	if len(steps) != 2 || steps[0].Title != "Persönliche Daten" || steps[1].Title != "Einwilligung" {
		t.Fatalf("unexpected steps %+v", steps)
	}

	for field, value := range map[string]string{
		"firstName":    "Erika",
		"lastName":     "Mustermann",
		"email":        "erika@example.de",
		"confirmEmail": "erika@example.com",
	} {
		if err := session.SetValue(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
	if err := session.Blur("confirmEmail"); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if msg := session.Message("confirmEmail"); msg != "E-Mailadressen stimmen nicht überein." {
		t.Fatalf("unexpected mismatch message %q", msg)
	}
	if session.Current().State != wizard.StatePending {
		t.Fatalf("mismatch must keep the step pending")
	}

	if err := session.SetValue("confirmEmail", "erika@example.de"); err != nil {
		t.Fatalf("fix confirm: %v", err)
	}
	if err := session.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	for _, field := range []string{"acceptedFirst", "acceptedSecond"} {
		if err := session.SetValue(field, "true"); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}

	outcome, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Text != "Ihre Daten wurden übermittelt." {
		t.Fatalf("unexpected outcome text %q", outcome.Text)
	}

	want := map[string]string{
		"address": "", "title": "", "firstName": "Erika", "lastName": "Mustermann",
		"street": "", "number": "", "zipcode": "", "city": "",
		"email": "erika@example.de", "confirmEmail": "erika@example.de",
		"born": "", "areaCode": "", "phoneNumber": "",
		"acceptedFirst": "true", "acceptedSecond": "true",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSession_Locale(t *testing.T) {
	session, err := stepform.NewSession(stepform.DefaultDefinition(), stepform.WithLocale("en-US"))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.SetValue("firstName", "E"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if msg := session.Message("firstName"); msg != "invalid value" {
		t.Fatalf("expected english message, got %q", msg)
	}
}

func TestLoadDefinition(t *testing.T) {
	ctx := context.Background()

	def, err := stepform.LoadDefinition(ctx, "")
	if err != nil || def.ID != "contact" {
		t.Fatalf("empty path should load the default definition, got %q / %v", def.ID, err)
	}

	dir := t.TempDir()
	apiPath := filepath.Join(dir, "api.yaml")
	doc := `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /signup:
    post:
      operationId: signup
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email: {type: string, format: email}
      responses:
        "200": {description: ok}
`
	if err := os.WriteFile(apiPath, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	def, err = stepform.LoadDefinition(ctx, apiPath+"#signup")
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}
	if def.ID != "signup" || def.FieldCount() != 1 {
		t.Fatalf("unexpected definition %+v", def)
	}
}
