package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

// CreateAttempt persists a scored attempt and returns it.
func (s *Store) CreateAttempt(a model.Attempt) (model.Attempt, error) {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("encode answers: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO exam_attempts (exam_id, exam_type, answers, score, total_correct, total_questions, time_taken)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ExamID, a.ExamType, answers, a.Score, a.TotalCorrect, a.TotalQuestions, a.TimeTaken,
	)
	if err != nil {
		return model.Attempt{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Attempt{}, err
	}
	return s.GetAttempt(id)
}

// GetAttempt returns an attempt by ID.
func (s *Store) GetAttempt(id int64) (model.Attempt, error) {
	var a model.Attempt
	var answers []byte
	err := s.db.QueryRow(
		`SELECT id, exam_id, exam_type, answers, score, total_correct, total_questions, time_taken, completed_at
		 FROM exam_attempts WHERE id = ?`, id,
	).Scan(&a.ID, &a.ExamID, &a.ExamType, &answers, &a.Score, &a.TotalCorrect, &a.TotalQuestions, &a.TimeTaken, &a.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, apperr.New(apperr.KindNotFound, "Exam attempt not found")
	}
	if err != nil {
		return a, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return a, fmt.Errorf("decode answers: %w", err)
		}
	}
	return a, nil
}

// ListAttempts returns attempts, optionally filtered by exam, newest first.
func (s *Store) ListAttempts(examID int64) ([]model.Attempt, error) {
	query := `SELECT id, exam_id, exam_type, answers, score, total_correct, total_questions, time_taken, completed_at
		 FROM exam_attempts`
	var args []any
	if examID != 0 {
		query += ` WHERE exam_id = ?`
		args = append(args, examID)
	}
	query += ` ORDER BY completed_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.ExamID, &a.ExamType, &answers, &a.Score, &a.TotalCorrect, &a.TotalQuestions, &a.TimeTaken, &a.CompletedAt); err != nil {
			return nil, err
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &a.Answers); err != nil {
				return nil, fmt.Errorf("decode answers: %w", err)
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// DeleteAttempt removes an attempt and any performance rows referencing it,
// in one transaction. This is the only way a performance row is ever deleted.
func (s *Store) DeleteAttempt(id int64) error {
	if _, err := s.GetAttempt(id); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM performance_scores WHERE exam_attempt_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM exam_attempts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
