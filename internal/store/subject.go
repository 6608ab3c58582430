package store

import (
	"database/sql"
	"errors"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

// CreateSubject inserts a subject and returns it.
func (s *Store) CreateSubject(sub model.Subject) (model.Subject, error) {
	res, err := s.db.Exec(
		`INSERT INTO subjects (name, category, description, color) VALUES (?, ?, ?, ?)`,
		sub.Name, sub.Category, sub.Description, sub.Color,
	)
	if err != nil {
		return model.Subject{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subject{}, err
	}
	return s.GetSubject(id)
}

// GetSubject returns a subject by ID.
func (s *Store) GetSubject(id int64) (model.Subject, error) {
	var sub model.Subject
	err := s.db.QueryRow(
		`SELECT id, name, category, description, color, created_at, updated_at
		 FROM subjects WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Name, &sub.Category, &sub.Description, &sub.Color, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, apperr.New(apperr.KindNotFound, "Subject not found")
	}
	return sub, err
}

// ListSubjects returns all subjects, newest first.
func (s *Store) ListSubjects() ([]model.Subject, error) {
	rows, err := s.db.Query(
		`SELECT id, name, category, description, color, created_at, updated_at
		 FROM subjects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var subjects []model.Subject
	for rows.Next() {
		var sub model.Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Category, &sub.Description, &sub.Color, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// DeleteSubject removes a subject and its topics in one transaction. Foreign
// keys cascade the topics' materials, exams, and attempts; performance and
// confidence rows are detached by SET NULL, not deleted.
func (s *Store) DeleteSubject(id int64) error {
	if _, err := s.GetSubject(id); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM topics WHERE subject_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM subjects WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
