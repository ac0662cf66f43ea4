package session

import "context"

// Repository persists session state for the lifetime of the process
type Repository interface {
	// Load returns model.ErrSessionNotFound when id is unknown or expired
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	// Delete returns model.ErrSessionNotFound when there was nothing to remove
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// Close releases the backend and drops every session it holds
	Close(ctx context.Context) error
}
