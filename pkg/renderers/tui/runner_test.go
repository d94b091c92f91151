package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/form"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/submission"
	"github.com/goliatone/go-stepform/pkg/validation"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTestSession(t *testing.T, transport submission.Transport) *wizard.Session {
	t.Helper()
	personal, err := form.NewGroup("personal", []form.FieldSpec{
		{Name: "name", Rules: []validation.Rule{validation.Required(), validation.MinLength(2)}},
		{Name: "salutation", Kind: form.KindSelect, Options: []string{"Herr", "Frau"}},
		{Name: "email", Rules: []validation.Rule{validation.Required(), validation.Email()}},
		{Name: "confirmEmail", Rules: []validation.Rule{validation.Required(), validation.Email()}},
	}, validation.Mismatch("email", "confirmEmail"))
	if err != nil {
		t.Fatalf("personal: %v", err)
	}
	consent, err := form.NewGroup("consent", []form.FieldSpec{
		{Name: "accepted", Kind: form.KindCheckbox, Rules: []validation.Rule{validation.Required()}},
	})
	if err != nil {
		t.Fatalf("consent: %v", err)
	}
	f, err := form.New(personal, consent)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	session, err := wizard.NewSession(f,
		wizard.WithResolver(message.NewResolver(message.NewCatalog("en"))),
		wizard.WithCoordinator(submission.NewCoordinator(transport)),
	)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return session
}

func TestRunner_WalksStepsAndRetriesSubmission(t *testing.T) {
	var sent []map[string]string
	calls := 0
	transport := submission.TransportFunc(func(_ context.Context, snap submission.Snapshot) error {
		calls++
		sent = append(sent, snap.Values())
		if calls == 1 {
			return errors.New("503 service unavailable")
		}
		return nil
	})
	session := newTestSession(t, transport)

	driver := &stubDriver{
		inputs: []string{
			"A", "Ada", "a@b.com", "a@c.com",
			"Ada", "a@b.com", "a@b.com",
		},
		selectIdx: []int{2, 2},
		confirm:   []bool{true, true, true},
	}
	runner := New(WithPromptDriver(driver))

	outcome, err := runner.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Status != submission.StatusSucceeded {
		t.Fatalf("expected success, got %+v", outcome)
	}

	wantInfo := []string{
		"personal",
		"! invalid value",
		"! email: values do not match",
		"! confirmEmail: values do not match",
		"personal",
		"consent",
		"Please review your entries:",
		"  name: Ada",
		"  salutation: Frau",
		"  email: a@b.com",
		"  confirmEmail: a@b.com",
		"  accepted: true",
		"Submission failed. Please try again.",
		"Your data has been submitted.",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}

	want := map[string]string{
		"name":         "Ada",
		"salutation":   "Frau",
		"email":        "a@b.com",
		"confirmEmail": "a@b.com",
		"accepted":     "true",
	}
	if len(sent) != 2 {
		t.Fatalf("expected two attempts, got %d", len(sent))
	}
	if diff := cmp.Diff(want, sent[1]); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_DeclinedSubmission(t *testing.T) {
	session := newTestSession(t, submission.TransportFunc(func(context.Context, submission.Snapshot) error {
		t.Fatalf("transport must not be called")
		return nil
	}))
	driver := &stubDriver{
		inputs:    []string{"Ada", "a@b.com", "a@b.com"},
		selectIdx: []int{0},
		confirm:   []bool{true, false},
	}

	_, err := New(WithPromptDriver(driver), WithLabels(LabelsFor("de"))).Run(context.Background(), session)
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if driver.infoMessages[len(driver.infoMessages)-1] != "  accepted: true" {
		t.Fatalf("summary should list the consent, got %v", driver.infoMessages)
	}
	if driver.infoMessages[2] != "Bitte prüfen Sie Ihre Angaben:" {
		t.Fatalf("expected german summary label, got %q", driver.infoMessages[2])
	}
}

func TestRunner_PropagatesDriverErrors(t *testing.T) {
	session := newTestSession(t, nil)
	driver := &stubDriver{}

	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), session); err == nil {
		t.Fatalf("expected error from exhausted driver")
	}
}
