package session

import (
	"context"
	"maps"
	"slices"
)

const deferredField = "delayed"

// Session is the state of one client.
// Methods lock the owning store, so a Session is safe for concurrent use.
type Session struct {
	store      *Store
	key        string
	fields     map[string]any
	persistent map[string]struct{}
}

func newSession(store *Store, key string) *Session {
	return &Session{
		store:      store,
		key:        key,
		fields:     make(map[string]any),
		persistent: make(map[string]struct{}),
	}
}

// Key returns the session key.
func (s *Session) Key() string {
	return s.key
}

// Get returns the value of field and whether it is set.
func (s *Session) Get(field string) (any, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	v, ok := s.fields[field]
	return v, ok
}

// GetString returns field as a string, or "" when unset or of another type.
func (s *Session) GetString(field string) string {
	v, _ := s.Get(field)
	str, _ := v.(string)
	return str
}

// Has reports whether field is set.
func (s *Session) Has(field string) bool {
	_, ok := s.Get(field)
	return ok
}

// Fields returns the names of all set fields in sorted order.
func (s *Session) Fields() []string {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.fields))
}

// IsPersistent reports whether field survives a snapshot round trip.
func (s *Session) IsPersistent(field string) bool {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	_, ok := s.persistent[field]
	return ok
}

// Set stores v under field and persists the store.
func (s *Session) Set(ctx context.Context, field string, v any) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.fields[field] = v
	return s.store.saveLocked(ctx)
}

// Delete removes field and persists the store. Deleting an unset field is a no-op.
func (s *Session) Delete(ctx context.Context, field string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, ok := s.fields[field]; !ok {
		return nil
	}
	delete(s.fields, field)
	return s.store.saveLocked(ctx)
}

// Remember marks fields as persistent and persists the store.
// Fields may be remembered before they are set.
func (s *Session) Remember(ctx context.Context, fields ...string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, f := range fields {
		s.persistent[f] = struct{}{}
	}
	return s.store.saveLocked(ctx)
}

// Defer queues an HTML fragment to be shown on a later page.
func (s *Session) Defer(ctx context.Context, item string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	items := deferredItems(s.fields[deferredField])
	s.fields[deferredField] = append(items, item)
	return s.store.saveLocked(ctx)
}

// TakeDeferred returns and clears the queued fragments.
func (s *Session) TakeDeferred(ctx context.Context) ([]string, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	v, ok := s.fields[deferredField]
	if !ok {
		return nil, nil
	}
	delete(s.fields, deferredField)
	return deferredItems(v), s.store.saveLocked(ctx)
}

// deferredItems accepts both the in-memory form and one restored from JSON.
func deferredItems(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
