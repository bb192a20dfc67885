package state

import (
	"fmt"
	"log/slog"
	"sync"
)

// Saver persists a family document. The snapshot bridge implements it.
type Saver interface {
	Save(f *Family) error
}

// Store owns the live family document. Every mutation runs against a
// private clone and replaces the published document only on success, so
// readers never observe a partially applied transition. The document is
// persisted inside the same critical section, before the next mutation
// can be accepted.
type Store struct {
	mu     sync.RWMutex
	family *Family
	saver  Saver
	logger *slog.Logger
}

// NewStore wraps an initial document. saver may be nil (tests).
func NewStore(f *Family, saver Saver, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{family: f, saver: saver, logger: logger}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Family {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.family.Clone()
}

// Update applies fn to a clone of the current document. If fn returns an
// error the live document is untouched. On success the clone becomes
// the live document and is persisted; a persistence failure is logged
// but does not roll back the in-memory transition.
func (s *Store) Update(fn func(f *Family) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.family.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.family = next

	if s.saver != nil {
		if err := s.saver.Save(next); err != nil {
			s.logger.Error("persist family state", "error", err)
		}
	}
	return nil
}

// Replace swaps in a whole new document (backup restore) and persists it.
func (s *Store) Replace(f *Family) error {
	if f == nil {
		return fmt.Errorf("replace with nil family")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.family = f.Clone()
	if s.saver != nil {
		if err := s.saver.Save(s.family); err != nil {
			return fmt.Errorf("persist restored state: %w", err)
		}
	}
	return nil
}

// PINHash returns the stored hash for a user, or "".
func (s *Store) PINHash(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.family.PINs[userID]
}
