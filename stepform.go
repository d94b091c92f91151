// Package stepform wires definitions, sessions and transports together for
// callers that want a working multi-step form with one call.
package stepform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/message"
	"github.com/goliatone/go-stepform/pkg/submission"
	"github.com/goliatone/go-stepform/pkg/wizard"
)

// Definition aliases definition.Definition.
type Definition = definition.Definition

// Session aliases wizard.Session.
type Session = wizard.Session

// Transport aliases submission.Transport.
type Transport = submission.Transport

// Option configures NewSession.
type Option func(*options)

type options struct {
	locale      string
	transport   submission.Transport
	logger      *slog.Logger
	policy      message.Policy
	catalogOpts []message.CatalogOption
}

// WithLocale selects the message locale. Defaults to the definition's.
func WithLocale(locale string) Option {
	return func(o *options) { o.locale = locale }
}

// WithTransport sets where submissions go.
func WithTransport(t submission.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger is passed to the session and coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPolicy overrides the message resolver policy.
func WithPolicy(p message.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithCatalogOptions forwards options to the message catalog, e.g. a
// translator.
func WithCatalogOptions(opts ...message.CatalogOption) Option {
	return func(o *options) { o.catalogOpts = append(o.catalogOpts, opts...) }
}

// DefaultDefinition returns the embedded contact form.
func DefaultDefinition() Definition {
	return definition.Default()
}

// LoadDefinition reads a JSON or YAML definition file. An empty path returns
// the embedded contact form. "file.yaml#operationId" style references load an
// OpenAPI document and build the definition from that operation.
func LoadDefinition(ctx context.Context, path string) (Definition, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return definition.Default(), nil
	}
	file, operation, isOperation := strings.Cut(path, "#")
	if !isOperation {
		return definition.LoadFile(path)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return Definition{}, fmt.Errorf("stepform: read %s: %w", filepath.Base(file), err)
	}
	return definition.FromOpenAPI(ctx, data, operation)
}

// NewSession compiles def and returns a session ready for user events.
func NewSession(def Definition, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	compiled, err := def.Compile()
	if err != nil {
		return nil, err
	}

	catalog := compiled.Catalog(o.locale, o.catalogOpts...)
	coordinatorOpts := []submission.Option{submission.WithLogger(o.logger)}
	return wizard.NewSession(compiled.Form,
		wizard.WithResolver(message.NewResolver(catalog, message.WithPolicy(o.policy))),
		wizard.WithCoordinator(submission.NewCoordinator(o.transport, coordinatorOpts...)),
		wizard.WithStepTitles(compiled.Titles),
		wizard.WithLogger(o.logger),
	)
}
