package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/task-tracker/internal/models"
)

const taskColumns = `id, owner_id, title, description, completed, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString
	if err := row.Scan(&task.ID, &task.OwnerID, &task.Title, &description, &task.Completed, &task.CreatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	return task, nil
}

// ListTasks returns the tasks owned by ownerID, newest first
func (r *Repository) ListTasks(ctx context.Context, ownerID int64) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM task
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a task and fills in its id and creation time
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO task (owner_id, title, description, completed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, completed, created_at`
	err := r.db.QueryRowContext(ctx, query, task.OwnerID, task.Title, task.Description).
		Scan(&task.ID, &task.Completed, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// UpdateTask applies patch to the task identified by taskID and ownerID
func (r *Repository) UpdateTask(ctx context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("failed to update task: empty patch")
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.DescriptionSet {
		set("description", patch.Description)
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}
	args = append(args, taskID, ownerID)

	query := fmt.Sprintf(`
		UPDATE task
		SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING `+taskColumns, strings.Join(sets, ", "), len(args)-1, len(args))
	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ToggleTask negates the completed flag in a single statement
func (r *Repository) ToggleTask(ctx context.Context, ownerID, taskID int64) (*models.Task, error) {
	query := `
		UPDATE task
		SET completed = NOT completed
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns
	task, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the task identified by taskID and ownerID
func (r *Repository) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
