package store

import (
	"database/sql"
	"errors"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

// CreateTopic inserts a topic under a subject and returns it.
func (s *Store) CreateTopic(t model.Topic) (model.Topic, error) {
	if _, err := s.GetSubject(t.SubjectID); err != nil {
		return model.Topic{}, err
	}
	res, err := s.db.Exec(
		`INSERT INTO topics (subject_id, name, description) VALUES (?, ?, ?)`,
		t.SubjectID, t.Name, t.Description,
	)
	if err != nil {
		return model.Topic{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Topic{}, err
	}
	return s.GetTopic(id)
}

// GetTopic returns a topic by ID.
func (s *Store) GetTopic(id int64) (model.Topic, error) {
	var t model.Topic
	err := s.db.QueryRow(
		`SELECT id, subject_id, name, description, created_at FROM topics WHERE id = ?`, id,
	).Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, apperr.New(apperr.KindNotFound, "Topic not found")
	}
	return t, err
}

// ListTopics returns all topics, optionally filtered by subject.
// subjectID 0 means no filtering.
func (s *Store) ListTopics(subjectID int64) ([]model.Topic, error) {
	query := `SELECT id, subject_id, name, description, created_at FROM topics`
	var args []any
	if subjectID != 0 {
		query += ` WHERE subject_id = ?`
		args = append(args, subjectID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes a topic; cascades handle its materials, exams, and
// attempts while history rows are detached.
func (s *Store) DeleteTopic(id int64) error {
	if _, err := s.GetTopic(id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM topics WHERE id = ?`, id)
	return err
}
