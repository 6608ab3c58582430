package store

import (
	"database/sql"
	"errors"

	"studyhub/internal/model"
)

// CreateConfidenceEntry appends a confidence row. Entries are never updated.
func (s *Store) CreateConfidenceEntry(c model.ConfidenceEntry) (model.ConfidenceEntry, error) {
	res, err := s.db.Exec(
		`INSERT INTO confidence_tracking (topic_id, exam_id, exam_attempt_id, confidence_level, previous_confidence_level, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.TopicID, c.ExamID, c.AttemptID, c.Level, c.PreviousLevel, c.Notes,
	)
	if err != nil {
		return model.ConfidenceEntry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ConfidenceEntry{}, err
	}

	var entry model.ConfidenceEntry
	err = s.db.QueryRow(
		`SELECT id, topic_id, exam_id, exam_attempt_id, confidence_level, previous_confidence_level, notes, tracked_at
		 FROM confidence_tracking WHERE id = ?`, id,
	).Scan(&entry.ID, &entry.TopicID, &entry.ExamID, &entry.AttemptID, &entry.Level, &entry.PreviousLevel, &entry.Notes, &entry.TrackedAt)
	return entry, err
}

// LatestConfidenceEntry returns the most recent confidence row for a topic,
// or nil if the topic has none yet.
func (s *Store) LatestConfidenceEntry(topicID int64) (*model.ConfidenceEntry, error) {
	var entry model.ConfidenceEntry
	err := s.db.QueryRow(
		`SELECT id, topic_id, exam_id, exam_attempt_id, confidence_level, previous_confidence_level, notes, tracked_at
		 FROM confidence_tracking WHERE topic_id = ? ORDER BY tracked_at DESC, id DESC LIMIT 1`, topicID,
	).Scan(&entry.ID, &entry.TopicID, &entry.ExamID, &entry.AttemptID, &entry.Level, &entry.PreviousLevel, &entry.Notes, &entry.TrackedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListConfidenceEntries returns confidence rows, optionally filtered by
// topic, newest first.
func (s *Store) ListConfidenceEntries(topicID int64) ([]model.ConfidenceEntry, error) {
	query := `SELECT id, topic_id, exam_id, exam_attempt_id, confidence_level, previous_confidence_level, notes, tracked_at
		 FROM confidence_tracking`
	var args []any
	if topicID != 0 {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY tracked_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.ConfidenceEntry
	for rows.Next() {
		var e model.ConfidenceEntry
		if err := rows.Scan(&e.ID, &e.TopicID, &e.ExamID, &e.AttemptID, &e.Level, &e.PreviousLevel, &e.Notes, &e.TrackedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
