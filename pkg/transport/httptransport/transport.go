package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"

	"github.com/goliatone/go-stepform/internal/logger"
	"github.com/goliatone/go-stepform/pkg/submission"
)

const maxErrorBody = 64 << 10

// ErrEndpoint is returned by New for an unusable endpoint.
var ErrEndpoint = errors.New("httptransport: invalid endpoint")

// reasonPaths are tried in order when pulling a failure reason out of a JSON
// error body.
var reasonPaths = []string{"message", "error.message", "error", "errors.0.message", "detail", "title"}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("httptransport: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("httptransport: unexpected status %d: %s", e.Code, e.Reason)
}

// Transport posts snapshots to a single endpoint. It implements
// submission.Transport.
type Transport struct {
	endpoint  string
	method    string
	format    Format
	client    *http.Client
	headers   http.Header
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

var _ submission.Transport = (*Transport)(nil)

// New constructs a transport for endpoint. Values are sanitized with
// bluemonday's strict policy unless WithSanitizer(nil) is given.
func New(endpoint string, options ...Option) (*Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrEndpoint, endpoint)
	}

	t := &Transport{
		endpoint:  u.String(),
		method:    http.MethodPost,
		format:    FormatJSON,
		client:    &http.Client{Timeout: 15 * time.Second},
		headers:   http.Header{},
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t, nil
}

// Endpoint returns the target URL.
func (t *Transport) Endpoint() string { return t.endpoint }

// Submit sends the snapshot. The snapshot ID doubles as the Idempotency-Key.
func (t *Transport) Submit(ctx context.Context, snapshot submission.Snapshot) error {
	body, err := t.encode(snapshot.Values())
	if err != nil {
		return fmt.Errorf("httptransport: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, t.method, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("httptransport: request: %w", err)
	}
	for key, values := range t.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", t.format.ContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", snapshot.ID())

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("httptransport: do request: %w", err)
	}
	defer resp.Body.Close()

	t.logger.Debug("submission response",
		"endpoint", t.endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Reason: failureReason(raw)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (t *Transport) encode(values map[string]string) ([]byte, error) {
	clean := make(map[string]string, len(values))
	for key, value := range values {
		clean[key] = t.sanitize(value)
	}
	if t.format == FormatForm {
		form := url.Values{}
		for key, value := range clean {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	}
	return json.Marshal(clean)
}

// sanitize drops markup but keeps the plain text as typed.
func (t *Transport) sanitize(value string) string {
	if t.sanitizer == nil || value == "" {
		return value
	}
	return html.UnescapeString(t.sanitizer.Sanitize(value))
}

func failureReason(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range reasonPaths {
		res := gjson.GetBytes(body, path)
		if res.Type == gjson.String && res.String() != "" {
			return res.String()
		}
	}
	return ""
}
