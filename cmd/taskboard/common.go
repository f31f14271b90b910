package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/metalagman/taskboard/internal/app"
	"github.com/metalagman/taskboard/internal/config"
	"github.com/metalagman/taskboard/internal/task"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// openService opens the configured store outside of the server lifecycle.
// The returned func releases whatever the store holds.
func openService(ctx context.Context, cfg config.Config) (*task.Service, func(), error) {
	var hooks []fx.Hook
	store, err := app.OpenStore(ctx, cfg.Store, func(h fx.Hook) { hooks = append(hooks, h) })
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {
		for _, h := range hooks {
			if h.OnStop == nil {
				continue
			}
			if err := h.OnStop(context.Background()); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
		}
	}
	return task.NewService(store), closeFn, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
