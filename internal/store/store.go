// Package store implements the per-user, per-entity-kind record store backing
// the portal. Each storage key maps to one JSON document on disk; collections
// are ordered sequences replaced wholesale on write (last writer wins, no
// merge). Change notification covers both writers in this process and writers
// in other processes sharing the data directory.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Kind namespaces persisted collections.
type Kind string

const (
	KindAppointments  Kind = "appointments"
	KindPrescriptions Kind = "prescriptions"
)

// Key derives the storage key for a user's collection of the given kind.
// All key construction goes through here; nothing else may build keys.
func Key(kind Kind, userID uuid.UUID) string {
	return fmt.Sprintf("%s_%s", kind, userID)
}

// Record constrains collection element types to those that expose and adopt
// a record id.
type Record[T any] interface {
	RecordID() uuid.UUID
	WithID(id uuid.UUID) T
}

// Collection provides typed access to one entity kind across users. All
// operations are scoped by the user id passed to them; cross-user access is
// impossible by construction of the key.
type Collection[T Record[T]] struct {
	store *Store
	kind  Kind
}

func NewCollection[T Record[T]](s *Store, kind Kind) *Collection[T] {
	return &Collection[T]{store: s, kind: kind}
}

// Load returns the user's collection. A missing key yields an empty
// collection; a corrupt persisted value is discarded and also yields an
// empty collection rather than a parse error.
func (c *Collection[T]) Load(userID uuid.UUID) ([]T, error) {
	raw, ok, err := c.store.Get(Key(c.kind, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s collection: %w", c.kind, err)
	}
	if !ok {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn().
			Err(err).
			Str("kind", string(c.kind)).
			Str("user_id", userID.String()).
			Msg("discarding corrupt collection")
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the entire collection. Saving the same value twice produces
// the same persisted state.
func (c *Collection[T]) Save(userID uuid.UUID, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s collection: %w", c.kind, err)
	}
	if err := c.store.Put(Key(c.kind, userID), raw); err != nil {
		return fmt.Errorf("failed to persist %s collection: %w", c.kind, err)
	}
	return nil
}

// Append stores a new record at the end of the collection, assigning a fresh
// id when the record has none, and returns the stored record.
func (c *Collection[T]) Append(userID uuid.UUID, record T) (T, error) {
	var zero T

	records, err := c.Load(userID)
	if err != nil {
		return zero, err
	}

	if record.RecordID() == uuid.Nil {
		record = record.WithID(uuid.New())
	}
	records = append(records, record)

	if err := c.Save(userID, records); err != nil {
		return zero, err
	}
	return record, nil
}

// Replace substitutes the record with the given id, preserving its id and
// position. A non-matching id is a no-op and reports false.
func (c *Collection[T]) Replace(userID, id uuid.UUID, record T) (bool, error) {
	records, err := c.Load(userID)
	if err != nil {
		return false, err
	}

	for i, r := range records {
		if r.RecordID() == id {
			records[i] = record.WithID(id)
			if err := c.Save(userID, records); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes the record with the given id. A non-matching id is a no-op
// and reports false.
func (c *Collection[T]) Remove(userID, id uuid.UUID) (bool, error) {
	records, err := c.Load(userID)
	if err != nil {
		return false, err
	}

	for i, r := range records {
		if r.RecordID() == id {
			records = append(records[:i], records[i+1:]...)
			if err := c.Save(userID, records); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Subscribe registers fn to run whenever this user's collection changes,
// whether the write happened in this process or another one sharing the data
// directory. The returned function deregisters the callback; callers must
// invoke it when they stop observing.
func (c *Collection[T]) Subscribe(userID uuid.UUID, fn func()) func() {
	return c.store.Subscribe(Key(c.kind, userID), fn)
}
