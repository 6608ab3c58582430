package store

import (
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

// maxVersionRetries bounds the optimistic read-increment-insert loop used to
// allocate exam version numbers under contention.
const maxVersionRetries = 5

// CreateExam persists a generated exam, allocating the next version number
// for its scope inside a transaction. The scope is the source material for
// material exams and the topic for subject- or topic-wide exams (nil
// materialID). On a unique-constraint race the whole read-increment-insert
// sequence is retried; rolled-back version numbers are never reused because
// each retry re-reads the committed maximum.
func (s *Store) CreateExam(materialID *int64, topicID int64, baseTitle string, questions []model.Question) (model.Exam, error) {
	encoded, err := model.EncodeQuestions(questions)
	if err != nil {
		return model.Exam{}, fmt.Errorf("encode questions: %w", err)
	}

	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		id, err := s.tryInsertExam(materialID, topicID, baseTitle, encoded, len(questions))
		if err == nil {
			return s.GetExam(id)
		}
		if isUniqueViolation(err) || isBusy(err) {
			continue
		}
		return model.Exam{}, err
	}
	return model.Exam{}, apperr.New(apperr.KindVersionConflict,
		"Failed to allocate a unique exam version number after multiple retries")
}

func (s *Store) tryInsertExam(materialID *int64, topicID int64, baseTitle string, questions []byte, total int) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var maxVersion int
	if materialID != nil {
		err = tx.QueryRow(
			`SELECT COALESCE(MAX(version_number), 0) FROM exams WHERE revision_material_id = ?`,
			*materialID,
		).Scan(&maxVersion)
	} else {
		err = tx.QueryRow(
			`SELECT COALESCE(MAX(version_number), 0) FROM exams WHERE topic_id = ? AND revision_material_id IS NULL`,
			topicID,
		).Scan(&maxVersion)
	}
	if err != nil {
		return 0, err
	}
	version := maxVersion + 1

	if s.examInsertHook != nil {
		s.examInsertHook()
	}

	res, err := tx.Exec(
		`INSERT INTO exams (revision_material_id, topic_id, version_number, title, questions, total_questions)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		materialID, topicID, version, fmt.Sprintf("%s (v%d)", baseTitle, version), questions, total,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetExam returns an exam by ID with its questions decoded and validated.
func (s *Store) GetExam(id int64) (model.Exam, error) {
	var e model.Exam
	var questions []byte
	err := s.db.QueryRow(
		`SELECT id, revision_material_id, topic_id, version_number, title, questions, total_questions, created_at
		 FROM exams WHERE id = ?`, id,
	).Scan(&e.ID, &e.MaterialID, &e.TopicID, &e.VersionNumber, &e.Title, &questions, &e.TotalQuestions, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return e, apperr.New(apperr.KindNotFound, "Exam not found")
	}
	if err != nil {
		return e, err
	}
	e.Questions, err = model.DecodeQuestions(questions)
	return e, err
}

// ListExams returns exam summaries (questions omitted), optionally filtered
// by topic, newest first.
func (s *Store) ListExams(topicID int64) ([]model.Exam, error) {
	query := `SELECT id, revision_material_id, topic_id, version_number, title, total_questions, created_at FROM exams`
	var args []any
	if topicID != 0 {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.MaterialID, &e.TopicID, &e.VersionNumber, &e.Title, &e.TotalQuestions, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// DeleteExam removes an exam; its attempts cascade away and history rows are
// detached.
func (s *Store) DeleteExam(id int64) error {
	if _, err := s.GetExam(id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM exams WHERE id = ?`, id)
	return err
}
