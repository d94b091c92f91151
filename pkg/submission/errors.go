package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when a step is not eligible for submission.
	ErrNotReady = errors.New("submission: step not ready")
	// ErrInFlight is returned while a previous submission has not finished.
	ErrInFlight = errors.New("submission: already in flight")
	// ErrFieldCollision reports two sources contributing the same field.
	ErrFieldCollision = errors.New("submission: field name collision")
	// ErrNoTransport is returned when the coordinator has no transport.
	ErrNoTransport = errors.New("submission: transport is nil")
)

// Error wraps a transport failure for a specific snapshot.
type Error struct {
	SnapshotID string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("submission: transport failed for snapshot %s: %v", e.SnapshotID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
