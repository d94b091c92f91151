package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
)

// Format controls how snapshot values are serialized.
type Format string

const (
	// FormatJSON emits application/json payloads.
	FormatJSON Format = "json"
	// FormatForm emits application/x-www-form-urlencoded payloads.
	FormatForm Format = "form"
)

// ContentType returns the media type for the format.
func (f Format) ContentType() string {
	if f == FormatForm {
		return "application/x-www-form-urlencoded"
	}
	return "application/json"
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient overrides the client used to send requests.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithMethod overrides the request method (POST by default).
func WithMethod(method string) Option {
	return func(t *Transport) {
		if method != "" {
			t.method = method
		}
	}
}

// WithFormat selects the payload format.
func WithFormat(format Format) Option {
	return func(t *Transport) {
		if format != "" {
			t.format = format
		}
	}
}

// WithHeader adds a static request header.
func WithHeader(key, value string) Option {
	return func(t *Transport) {
		t.headers.Set(key, value)
	}
}

// WithSanitizer strips markup from values before they are sent. Pass nil to
// send values untouched.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(t *Transport) {
		t.sanitizer = policy
	}
}

// WithLogger sets the logger used for request events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}
