// Package app assembles the taskboard server with fx.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/metalagman/taskboard/internal/config"
	"github.com/metalagman/taskboard/internal/db"
	"github.com/metalagman/taskboard/internal/filestore"
	"github.com/metalagman/taskboard/internal/task"
	"github.com/metalagman/taskboard/internal/web"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module provides the store, the task service and the web server.
var Module = fx.Module("taskboard",
	fx.Provide(
		NewStore,
		fx.Annotate(task.NewService, fx.As(new(web.TaskService))),
		newWebOptions,
		web.NewServer,
		NewHTTPServer,
	),
	fx.Invoke(func(*HTTPServer) {}),
)

// New builds the application for cfg. Extra options are appended, which lets
// tests populate or replace components.
func New(cfg config.Config, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		Module,
		fx.WithLogger(func() fxevent.Logger { return &eventLogger{} }),
		fx.Options(opts...),
	)
}

// NewStore opens the store selected by cfg.Store.Driver. SQLite handles are
// closed when the application stops.
func NewStore(lc fx.Lifecycle, cfg config.Config) (task.Store, error) {
	return OpenStore(context.Background(), cfg.Store, lc.Append)
}

// OpenStore opens the configured store. onClose receives a hook that
// releases the store's resources, if it holds any.
func OpenStore(ctx context.Context, cfg config.StoreConfig, onClose func(fx.Hook)) (task.Store, error) {
	switch cfg.Driver {
	case "", config.DriverFile:
		log.Debug().Str("path", cfg.Path).Msg("using file store")
		return filestore.New(cfg.Path), nil
	case config.DriverSQLite:
		database, err := db.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		onClose(fx.Hook{OnStop: func(context.Context) error { return closeDB(database) }})
		log.Debug().Str("path", cfg.Path).Msg("using sqlite store")
		return db.NewTaskStore(database), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func closeDB(database *sql.DB) error {
	if err := database.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func newWebOptions(cfg config.Config) web.Options {
	return web.Options{
		StaticDir: cfg.Server.StaticDir,
		IndexFile: cfg.Server.IndexFile,
	}
}

// HTTPServer is the lifecycle-managed HTTP listener.
type HTTPServer struct {
	srv *http.Server
	ln  net.Listener
}

// NewHTTPServer registers start and stop hooks serving s on cfg.Server.Addr.
func NewHTTPServer(lc fx.Lifecycle, cfg config.Config, s *web.Server) *HTTPServer {
	h := &HTTPServer{
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      s.Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
	shutdownTimeout := cfg.Server.ShutdownTimeout
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lcfg net.ListenConfig
			ln, err := lcfg.Listen(ctx, "tcp", h.srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", h.srv.Addr, err)
			}
			h.ln = ln
			log.Info().Str("addr", ln.Addr().String()).Msg("serving taskboard")
			go func() {
				if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
				defer cancel()
			}
			log.Info().Msg("shutting down http server")
			return h.srv.Shutdown(ctx)
		},
	})
	return h
}

// Addr returns the bound listener address, or the configured address before
// the application has started.
func (h *HTTPServer) Addr() string {
	if h.ln != nil {
		return h.ln.Addr().String()
	}
	return h.srv.Addr
}
