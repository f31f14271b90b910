package task

import (
	"context"
)

// Store persists the whole task collection at once.
//
// Load never fails: a missing, unreadable or corrupt source yields an empty
// collection. Save replaces the persisted collection with tasks, keeping
// their order.
type Store interface {
	Load(ctx context.Context) []Task
	Save(ctx context.Context, tasks []Task) error
}

// Locker is implemented by stores that can be shared between processes.
// The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}
