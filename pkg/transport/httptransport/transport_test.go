package httptransport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/submission"
	"github.com/goliatone/go-stepform/pkg/transport/httptransport"
)

type source struct {
	name   string
	values map[string]string
}

func (s source) Name() string              { return s.name }
func (s source) Values() map[string]string { return s.values }

func snapshot(t *testing.T, values map[string]string) submission.Snapshot {
	t.Helper()
	snap, err := submission.NewSnapshot(source{name: "personal", values: values})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

type capture struct {
	method      string
	contentType string
	idempotency string
	custom      string
	body        []byte
}

func recordingServer(t *testing.T, status int, reply string, got *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.contentType = r.Header.Get("Content-Type")
		got.idempotency = r.Header.Get("Idempotency-Key")
		got.custom = r.Header.Get("X-Client")
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTransport_SubmitJSON(t *testing.T) {
	var got capture
	srv := recordingServer(t, http.StatusCreated, `{}`, &got)

	tr, err := httptransport.New(srv.URL, httptransport.WithHeader("X-Client", "stepform"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	snap := snapshot(t, map[string]string{
		"firstName": "<b>Ada</b>",
		"lastName":  "O'Neil",
		"email":     "ada@example.com",
	})
	if err := tr.Submit(context.Background(), snap); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got.method != http.MethodPost || got.contentType != "application/json" || got.custom != "stepform" {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.idempotency != snap.ID() {
		t.Fatalf("expected idempotency key %q, got %q", snap.ID(), got.idempotency)
	}

	var payload map[string]string
	if err := json.Unmarshal(got.body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]string{
		"firstName": "Ada",
		"lastName":  "O'Neil",
		"email":     "ada@example.com",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestTransport_SubmitForm(t *testing.T) {
	var got capture
	srv := recordingServer(t, http.StatusOK, ``, &got)

	tr, err := httptransport.New(srv.URL,
		httptransport.WithFormat(httptransport.FormatForm),
		httptransport.WithMethod(http.MethodPut),
		httptransport.WithSanitizer(nil),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := tr.Submit(context.Background(), snapshot(t, map[string]string{"city": "<i>Köln</i>"})); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got.method != http.MethodPut || got.contentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected request %+v", got)
	}
	form, err := url.ParseQuery(string(got.body))
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if form.Get("city") != "<i>Köln</i>" {
		t.Fatalf("sanitizer disabled, expected raw value, got %q", form.Get("city"))
	}
}

func TestTransport_FailureReason(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reply  string
		reason string
	}{
		{name: "message", status: http.StatusBadRequest, reply: `{"message":"email already registered"}`, reason: "email already registered"},
		{name: "nested error", status: http.StatusUnprocessableEntity, reply: `{"error":{"message":"zipcode unknown"}}`, reason: "zipcode unknown"},
		{name: "errors list", status: http.StatusBadRequest, reply: `{"errors":[{"message":"too many requests"}]}`, reason: "too many requests"},
		{name: "plain text", status: http.StatusBadGateway, reply: `bad gateway`, reason: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got capture
			srv := recordingServer(t, tc.status, tc.reply, &got)
			tr, err := httptransport.New(srv.URL)
			if err != nil {
				t.Fatalf("new: %v", err)
			}

			err = tr.Submit(context.Background(), snapshot(t, map[string]string{"a": "b"}))
			var statusErr *httptransport.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if statusErr.Code != tc.status || statusErr.Reason != tc.reason {
				t.Fatalf("unexpected status error %+v", statusErr)
			}
		})
	}
}

func TestNew_RejectsBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://example.com", "/relative", "http://"} {
		if _, err := httptransport.New(endpoint); !errors.Is(err, httptransport.ErrEndpoint) {
			t.Fatalf("%q: expected ErrEndpoint, got %v", endpoint, err)
		}
	}
}
