package audit

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by unit tests and local runs
// without a document store. Entries are copied on write and read so the
// log stays immutable from the caller's side.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, entry *Entry) (string, error) {
	if err := validate(entry); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneEntry(entry)
	if stored.ID == "" {
		s.nextID++
		stored.ID = strconv.FormatInt(s.nextID, 10)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, stored)
	return stored.ID, nil
}

func (s *MemoryStore) Find(ctx context.Context, filter Filter) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Entry
	for _, e := range s.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.TenantID != "" && (e.TenantID == nil || *e.TenantID != filter.TenantID) {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, cloneEntry(e))
		if filter.Limit > 0 && int64(len(out)) == filter.Limit {
			break
		}
	}
	return out, nil
}

func cloneEntry(e *Entry) *Entry {
	clone := *e
	if e.TenantID != nil {
		tenantID := *e.TenantID
		clone.TenantID = &tenantID
	}
	if e.Details != nil {
		details := make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		clone.Details = details
	}
	return &clone
}
