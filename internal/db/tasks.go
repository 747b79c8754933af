package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/taskcards/internal/models"
)

var (
	// ErrTaskNotFound is returned when no task has the requested ID
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidLabel is returned for empty or multi-line labels
	ErrInvalidLabel = errors.New("invalid task label")
)

// validateLabel rejects labels a card cannot show on its single header line
func validateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidLabel)
	}
	if strings.ContainsAny(label, "\r\n") {
		return fmt.Errorf("%w: label must be a single line", ErrInvalidLabel)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskFilter narrows ListTasks
type TaskFilter struct {
	Search      string // matched against the label
	IncludeDone bool   // include completed tasks alongside open ones
	OnlyDone    bool   // return completed tasks only
}

const taskColumns = "id, label, priority, due_date, done, created_at, updated_at"

// Open tasks first, then by priority (High first), then due date with undated tasks last
const taskOrder = `
	ORDER BY done ASC,
		CASE priority WHEN 'High' THEN 3 WHEN 'Medium' THEN 2 WHEN 'Low' THEN 1 ELSE 0 END DESC,
		due_date = '' ASC,
		due_date ASC,
		created_at DESC,
		id DESC`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	var priority string
	err := s.Scan(&t.ID, &t.Label, &priority, &t.DueDate, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	t.Priority = models.Priority(priority)
	return t, err
}

// CreateTask creates a new task
func (db *DB) CreateTask(label string, priority models.Priority, dueDate string) (*models.Task, error) {
	if err := validateLabel(label); err != nil {
		return nil, err
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownPriority, priority)
	}

	result, err := db.Exec(`
		INSERT INTO tasks (label, priority, due_date) VALUES (?, ?, ?)
	`, label, string(priority), dueDate)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	db.log.Info().Int64("task_id", id).Str("priority", string(priority)).Msg("task created")
	return db.GetTask(id)
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(id int64) (*models.Task, error) {
	t, err := scanTask(db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns tasks matching filter in display order
func (db *DB) ListTasks(filter TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE 1 = 1"
	var args []any

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += ` AND label LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
	}

	switch {
	case filter.OnlyDone:
		query += " AND done = 1"
	case !filter.IncludeDone:
		query += " AND done = 0"
	}

	rows, err := db.Query(query+taskOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask updates a task's editable fields
func (db *DB) UpdateTask(id int64, label string, priority models.Priority, dueDate string) error {
	if err := validateLabel(label); err != nil {
		return err
	}
	if !priority.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownPriority, priority)
	}
	result, err := db.Exec(`
		UPDATE tasks SET label = ?, priority = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, label, string(priority), dueDate, id)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	db.log.Info().Int64("task_id", id).Msg("task updated")
	return expectRow(result, id)
}

// SetTaskDone marks a task done or not done
func (db *DB) SetTaskDone(id int64, done bool) error {
	result, err := db.Exec(`
		UPDATE tasks SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, done, id)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", id, err)
	}
	db.log.Info().Int64("task_id", id).Bool("done", done).Msg("task done state changed")
	return expectRow(result, id)
}

// ToggleTaskDone flips the done state of a task and returns the updated task
func (db *DB) ToggleTaskDone(id int64) (*models.Task, error) {
	t, err := db.GetTask(id)
	if err != nil {
		return nil, err
	}
	if err := db.SetTaskDone(id, !t.Done); err != nil {
		return nil, err
	}
	return db.GetTask(id)
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(id int64) error {
	result, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	db.log.Info().Int64("task_id", id).Msg("task deleted")
	return expectRow(result, id)
}

func expectRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return nil
}
