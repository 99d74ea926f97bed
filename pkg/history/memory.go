package history

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps entries in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends copies of entries.
func (s *MemoryStore) Record(ctx context.Context, entries ...*Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError("memory", "record", errors.New("store is closed"))
	}
	for _, e := range entries {
		c := *e
		s.entries = append(s.entries, &c)
	}
	return nil
}

// Query returns matching entries.
func (s *MemoryStore) Query(ctx context.Context, q *Query) ([]*Entry, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Entry
	for _, e := range s.entries {
		if matches(e, q) {
			c := *e
			matched = append(matched, &c)
		}
	}

	slices.SortStableFunc(matched, func(a, b *Entry) int {
		if q.descending() {
			return b.Time.Compare(a.Time)
		}
		return a.Time.Compare(b.Time)
	})

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of matching entries.
func (s *MemoryStore) Count(ctx context.Context, q *Query) (int64, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.entries {
		if matches(e, q) {
			n++
		}
	}
	return n, nil
}

// Prune deletes entries recorded before cutoff.
func (s *MemoryStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e *Entry) bool {
		return e.Time.Before(cutoff)
	})
	return int64(before - len(s.entries)), nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Size returns the number of stored entries.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func matches(e *Entry, q *Query) bool {
	switch {
	case q.Table != "" && e.Table != q.Table:
		return false
	case q.Family != "" && e.Family != q.Family:
		return false
	case q.Action != "" && e.Action != q.Action:
		return false
	case q.Status != "" && e.Status != q.Status:
		return false
	case q.OperationID != "" && e.OperationID != q.OperationID:
		return false
	case !q.Since.IsZero() && e.Time.Before(q.Since):
		return false
	case !q.Until.IsZero() && !e.Time.Before(q.Until):
		return false
	}
	return true
}

var _ Store = (*MemoryStore)(nil)
