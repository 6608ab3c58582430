package store

import (
	"database/sql"
	"errors"
	"time"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

const taskColumns = `id, task_type, subject_id, topic_id, title, description, start_date, deadline, status, importance, notes, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.TaskType, &t.SubjectID, &t.TopicID, &t.Title, &t.Description,
		&t.StartDate, &t.Deadline, &t.Status, &t.Importance, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTask inserts a task and returns it.
func (s *Store) CreateTask(t model.Task) (model.Task, error) {
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Importance == 0 {
		t.Importance = 3
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (task_type, subject_id, topic_id, title, description, start_date, deadline, status, importance, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TaskType, t.SubjectID, t.TopicID, t.Title, t.Description, t.StartDate, t.Deadline, t.Status, t.Importance, t.Notes,
	)
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(id)
}

// GetTask returns a task by ID.
func (s *Store) GetTask(id int64) (model.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, apperr.New(apperr.KindNotFound, "Task not found")
	}
	return t, err
}

// ListTasks returns all tasks ordered by deadline, undated tasks last.
func (s *Store) ListTasks() ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT ` + taskColumns + ` FROM tasks ORDER BY deadline IS NULL, deadline ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus updates a task's status and notes.
func (s *Store) UpdateTaskStatus(id int64, status, notes string) (model.Task, error) {
	if _, err := s.GetTask(id); err != nil {
		return model.Task{}, err
	}
	_, err := s.db.Exec(
		`UPDATE tasks SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, time.Now(), id,
	)
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(id)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id int64) error {
	if _, err := s.GetTask(id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}
