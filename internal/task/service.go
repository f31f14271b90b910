package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Service runs every operation as one load-mutate-save cycle against the
// store. Cycles are serialized by a mutex, and by the store's own lock when
// it implements Locker.
type Service struct {
	mu    sync.Mutex
	store Store
}

// NewService creates a task service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all tasks in store order. The result is never nil.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	var out []Task
	err := s.withLock(ctx, func() error {
		out = s.store.Load(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Task{}
	}
	return out, nil
}

// Create appends a new task with id max+1.
func (s *Service) Create(ctx context.Context, d Draft) (Task, error) {
	if d.Content == "" {
		return Task{}, ErrContentRequired
	}
	state := d.State
	if state == "" {
		state = DefaultState
	}

	var created Task
	err := s.withLock(ctx, func() error {
		tasks := s.store.Load(ctx)
		created = Task{ID: NextID(tasks), Content: d.Content, State: state}
		tasks = append(tasks, created)
		return s.save(ctx, tasks)
	})
	if err != nil {
		return Task{}, err
	}
	log.Debug().Int("id", created.ID).Msg("task created")
	return created, nil
}

// Update applies the patch to the task with the given id.
func (s *Service) Update(ctx context.Context, id int, p Patch) (Task, error) {
	if err := p.Validate(); err != nil {
		return Task{}, err
	}

	var updated Task
	err := s.withLock(ctx, func() error {
		tasks := s.store.Load(ctx)
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			p.Apply(&tasks[i])
			updated = tasks[i]
			return s.save(ctx, tasks)
		}
		return ErrNotFound
	})
	if err != nil {
		return Task{}, err
	}
	log.Debug().Int("id", id).Msg("task updated")
	return updated, nil
}

// Delete removes the task with the given id.
func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.withLock(ctx, func() error {
		tasks := s.store.Load(ctx)
		kept := make([]Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(tasks) {
			return ErrNotFound
		}
		return s.save(ctx, kept)
	})
	if err != nil {
		return err
	}
	log.Debug().Int("id", id).Msg("task deleted")
	return nil
}

func (s *Service) save(ctx context.Context, tasks []Task) error {
	if err := s.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

func (s *Service) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.store.(Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
		defer func() {
			if err := unlock(); err != nil {
				log.Warn().Err(err).Msg("unlock store")
			}
		}()
	}
	return fn()
}
