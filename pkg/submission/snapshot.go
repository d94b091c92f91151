package submission

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Source contributes named values to a snapshot.
type Source interface {
	Name() string
	Values() map[string]string
}

// Snapshot is an immutable merge of all source values taken at submit time.
// Each snapshot carries a unique ID transports can use as an idempotency key.
type Snapshot struct {
	id        string
	createdAt time.Time
	values    map[string]string
}

// NewSnapshot merges sources in order. Field names must not repeat across
// sources; a repeat returns ErrFieldCollision.
func NewSnapshot(sources ...Source) (Snapshot, error) {
	values := make(map[string]string)
	owner := make(map[string]string)
	for _, src := range sources {
		if src == nil {
			continue
		}
		for key, value := range src.Values() {
			if prev, exists := owner[key]; exists {
				return Snapshot{}, fmt.Errorf("%w: %q in %q and %q", ErrFieldCollision, key, prev, src.Name())
			}
			owner[key] = src.Name()
			values[key] = value
		}
	}
	return Snapshot{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		values:    values,
	}, nil
}

// ID returns the snapshot identifier.
func (s Snapshot) ID() string { return s.id }

// CreatedAt returns when the snapshot was taken.
func (s Snapshot) CreatedAt() time.Time { return s.createdAt }

// Len returns the number of fields.
func (s Snapshot) Len() int { return len(s.values) }

// Get returns a single value.
func (s Snapshot) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

// Values returns a copy of the merged values.
func (s Snapshot) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Keys lists field names in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
