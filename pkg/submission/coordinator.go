package submission

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-stepform/internal/logger"
)

// Transport delivers a snapshot to a remote service. A nil error means the
// remote side accepted it.
type Transport interface {
	Submit(ctx context.Context, snapshot Snapshot) error
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, snapshot Snapshot) error

// Submit calls fn.
func (fn TransportFunc) Submit(ctx context.Context, snapshot Snapshot) error {
	return fn(ctx, snapshot)
}

// Step is a wizard step as seen by the coordinator.
type Step interface {
	Source
	Eligible() bool
}

// Status describes the last submission attempt.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Outcome is the user-visible result of the last attempt. Reason holds the
// transport error text for failed attempts.
type Outcome struct {
	Status     Status    `json:"status"`
	SnapshotID string    `json:"snapshotId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at,omitempty"`
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for submission events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp outcomes.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator runs one submission at a time.
type Coordinator struct {
	transport Transport
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	inFlight bool
	outcome  Outcome
}

// NewCoordinator builds a coordinator around transport.
func NewCoordinator(transport Transport, options ...Option) *Coordinator {
	c := &Coordinator{
		transport: transport,
		logger:    logger.Discard(),
		now:       time.Now,
		outcome:   Outcome{Status: StatusIdle},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Submit checks every step is eligible, snapshots their values and hands the
// snapshot to the transport. It blocks until the transport returns; a second
// call made meanwhile fails with ErrInFlight.
func (c *Coordinator) Submit(ctx context.Context, steps []Step) (Outcome, error) {
	if c.transport == nil {
		return c.Outcome(), ErrNoTransport
	}

	c.mu.Lock()
	current := c.outcome
	if c.inFlight {
		c.mu.Unlock()
		return current, ErrInFlight
	}
	sources := make([]Source, 0, len(steps))
	for _, step := range steps {
		if !step.Eligible() {
			c.mu.Unlock()
			return current, fmt.Errorf("%w: %q", ErrNotReady, step.Name())
		}
		sources = append(sources, step)
	}
	snapshot, err := NewSnapshot(sources...)
	if err != nil {
		c.mu.Unlock()
		return current, err
	}
	c.inFlight = true
	c.outcome = Outcome{Status: StatusPending, SnapshotID: snapshot.ID(), At: c.now()}
	c.mu.Unlock()

	c.logger.Info("submission started", "snapshot", snapshot.ID(), "fields", snapshot.Len())
	sendErr := c.transport.Submit(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if sendErr != nil {
		c.outcome = Outcome{
			Status:     StatusFailed,
			SnapshotID: snapshot.ID(),
			Reason:     sendErr.Error(),
			At:         c.now(),
		}
		c.logger.Warn("submission failed", "snapshot", snapshot.ID(), "error", sendErr)
		return c.outcome, &Error{SnapshotID: snapshot.ID(), Err: sendErr}
	}
	c.outcome = Outcome{Status: StatusSucceeded, SnapshotID: snapshot.ID(), At: c.now()}
	c.logger.Info("submission succeeded", "snapshot", snapshot.ID())
	return c.outcome, nil
}

// InFlight reports whether a submission is running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Outcome returns the result of the last attempt.
func (c *Coordinator) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Reset forgets the last outcome. It is a no-op while a submission runs.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return
	}
	c.outcome = Outcome{Status: StatusIdle}
}
