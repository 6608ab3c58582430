package store

import "studyhub/internal/model"

// CreatePerformanceScore appends a history row. Rows are never updated.
func (s *Store) CreatePerformanceScore(p model.PerformanceScore) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO performance_scores (subject_id, topic_id, exam_id, exam_attempt_id, score, total_questions, correct_answers)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.SubjectID, p.TopicID, p.ExamID, p.AttemptID, p.Score, p.TotalQuestions, p.CorrectAnswers,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPerformanceScores returns history rows, optionally filtered by subject
// and/or topic (0 means no filter), newest first.
func (s *Store) ListPerformanceScores(subjectID, topicID int64) ([]model.PerformanceScore, error) {
	query := `SELECT id, subject_id, topic_id, exam_id, exam_attempt_id, score, total_questions, correct_answers, performance_date
		 FROM performance_scores WHERE 1=1`
	var args []any
	if subjectID != 0 {
		query += ` AND subject_id = ?`
		args = append(args, subjectID)
	}
	if topicID != 0 {
		query += ` AND topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY performance_date DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scores []model.PerformanceScore
	for rows.Next() {
		var p model.PerformanceScore
		if err := rows.Scan(&p.ID, &p.SubjectID, &p.TopicID, &p.ExamID, &p.AttemptID, &p.Score, &p.TotalQuestions, &p.CorrectAnswers, &p.PerformanceDate); err != nil {
			return nil, err
		}
		scores = append(scores, p)
	}
	return scores, rows.Err()
}

// ListPerformanceScoresForAttempt returns history rows for one attempt.
func (s *Store) ListPerformanceScoresForAttempt(attemptID int64) ([]model.PerformanceScore, error) {
	rows, err := s.db.Query(
		`SELECT id, subject_id, topic_id, exam_id, exam_attempt_id, score, total_questions, correct_answers, performance_date
		 FROM performance_scores WHERE exam_attempt_id = ? ORDER BY id`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scores []model.PerformanceScore
	for rows.Next() {
		var p model.PerformanceScore
		if err := rows.Scan(&p.ID, &p.SubjectID, &p.TopicID, &p.ExamID, &p.AttemptID, &p.Score, &p.TotalQuestions, &p.CorrectAnswers, &p.PerformanceDate); err != nil {
			return nil, err
		}
		scores = append(scores, p)
	}
	return scores, rows.Err()
}
