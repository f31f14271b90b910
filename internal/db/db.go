// Package db provides the SQLite task store and its migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedded embed.FS

// pragma is a connection setting applied once after opening. A soft pragma
// may fail without aborting Open.
type pragma struct {
	sql  string
	soft bool
}

var pragmas = []pragma{
	// Not every filesystem supports WAL; the rollback journal is fine for a
	// single-writer board.
	{sql: "PRAGMA journal_mode = WAL", soft: true},
	{sql: "PRAGMA busy_timeout = 5000"},
	{sql: "PRAGMA synchronous = NORMAL", soft: true},
}

// Open opens the task database at path and migrates the tasks table to the
// latest version. Missing parent directories are created.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", path, err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open task database %s: %w", path, err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := setup(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("prepare task database %s: %w", path, err)
	}
	return conn, nil
}

func setup(ctx context.Context, conn *sql.DB) error {
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p.sql); err != nil {
			if p.soft {
				log.Warn().Err(err).Str("pragma", p.sql).Msg("sqlite pragma skipped")
				continue
			}
			return fmt.Errorf("%s: %w", p.sql, err)
		}
	}
	return upgradeSchema(ctx, conn)
}

func upgradeSchema(ctx context.Context, conn *sql.DB) error {
	migrations, err := fs.Sub(embedded, "migrations")
	if err != nil {
		return fmt.Errorf("locate migrations: %w", err)
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("select migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migrate tasks schema: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read tasks schema version: %w", err)
	}
	log.Debug().Int64("schema_version", version).Msg("task database ready")
	return nil
}
