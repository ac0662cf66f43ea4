package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"luna_assistant/internal/model"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryRepository keeps encoded sessions in a map. Idle sessions expire
// after ttl; a zero ttl keeps them forever.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryRepository creates an empty in-process repository
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.ttl)
}

func (r *MemoryRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)
}

func (r *MemoryRepository) Load(_ context.Context, id string) (*State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || r.expired(e) {
		delete(r.entries, id)
		return nil, fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}

	// touch
	e.expiresAt = r.expiry()
	r.entries[id] = e

	return decodeState(e.data)
}

func (r *MemoryRepository) Save(_ context.Context, state *State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sweep()
	r.entries[state.ID] = memoryEntry{data: data, expiresAt: r.expiry()}
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || r.expired(e) {
		delete(r.entries, id)
		return fmt.Errorf("%w: %s", model.ErrSessionNotFound, id)
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	return len(r.entries), nil
}

// sweep drops expired entries; callers hold r.mu
func (r *MemoryRepository) sweep() {
	for id, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, id)
		}
	}
}

func (r *MemoryRepository) Close(_ context.Context) error {
	r.mu.Lock()
	r.entries = make(map[string]memoryEntry)
	r.mu.Unlock()
	return nil
}
