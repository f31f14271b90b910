package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metalagman/taskboard/internal/task"
	"github.com/rs/zerolog/log"
)

// TaskStore keeps the task collection in the tasks table. Order is kept in
// the position column.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a task store over an opened database.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Load returns all tasks ordered by position. Query failures are logged and
// yield an empty collection.
func (s *TaskStore) Load(ctx context.Context) []task.Task {
	tasks, err := s.list(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("load tasks from sqlite")
		return []task.Task{}
	}
	return tasks
}

func (s *TaskStore) list(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, state FROM tasks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []task.Task{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Content, &t.State); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

// Save replaces every row with tasks in one transaction.
func (s *TaskStore) Save(ctx context.Context, tasks []task.Task) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin save tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks(id, position, content, state) VALUES(?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert task: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for pos, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, pos, t.Content, t.State); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tasks: %w", err)
	}
	return nil
}
