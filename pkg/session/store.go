package session

import "context"

// Store persists session registry records. Implementations must make Save and
// Get atomic at whole-record granularity, and must return records that share
// no memory with their internal storage; callers serialize concurrent writers
// per session key but read without locks.
type Store interface {
	// Get retrieves a record. Returns ErrNotFound when no record exists.
	Get(ctx context.Context, sessionID string) (*State, error)

	// Save creates or replaces a record.
	Save(ctx context.Context, state *State) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns all live records. Order is not defined.
	List(ctx context.Context) ([]*State, error)
}
