package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"

	"github.com/google/uuid"
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Manager gives callers exclusive access to one session at a time
type Manager struct {
	repo Repository
	now  func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewManager wraps a repository
func NewManager(repo Repository) *Manager {
	return &Manager{
		repo:  repo,
		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Create starts a new empty session with a random id
func (m *Manager) Create(ctx context.Context) (*State, error) {
	state := newState(uuid.NewString(), m.now())
	if err := m.repo.Save(ctx, state); err != nil {
		return nil, err
	}
	logger.Debug().Str("session_id", state.ID).Msg("session created")
	return state, nil
}

// Do runs fn with the session state, creating it on first use, and saves the
// state when fn succeeds. A failing fn leaves the stored state untouched.
func (m *Manager) Do(ctx context.Context, id string, fn func(*State) error) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	unlock := m.lock(id)
	defer unlock()

	state, err := m.repo.Load(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		state = newState(id, m.now())
		logger.Debug().Str("session_id", id).Msg("session created on first use")
	} else if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	state.UpdatedAt = m.now()
	return m.repo.Save(ctx, state)
}

// View runs fn with an existing session without saving it
func (m *Manager) View(ctx context.Context, id string, fn func(*State) error) error {
	unlock := m.lock(id)
	defer unlock()

	state, err := m.repo.Load(ctx, id)
	if err != nil {
		return err
	}
	return fn(state)
}

// Delete forgets a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.repo.Delete(ctx, id)
}

// Count is the number of live sessions
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.repo.Count(ctx)
}

// Close shuts the backend down
func (m *Manager) Close(ctx context.Context) error {
	return m.repo.Close(ctx)
}
