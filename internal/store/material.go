package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studyhub/internal/apperr"
	"studyhub/internal/model"
)

const materialColumns = `id, topic_id, title, content, file_data, file_name, file_type, uploaded_at`

func scanMaterial(row interface{ Scan(...any) error }) (model.Material, error) {
	var m model.Material
	err := row.Scan(&m.ID, &m.TopicID, &m.Title, &m.Content, &m.FileData, &m.FileName, &m.FileType, &m.UploadedAt)
	return m, err
}

// CreateMaterial inserts a revision material and returns it.
func (s *Store) CreateMaterial(m model.Material) (model.Material, error) {
	res, err := s.db.Exec(
		`INSERT INTO revision_materials (topic_id, title, content, file_data, file_name, file_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.TopicID, m.Title, m.Content, m.FileData, m.FileName, m.FileType,
	)
	if err != nil {
		return model.Material{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Material{}, err
	}
	return s.GetMaterial(id)
}

// GetMaterial returns a material by ID, including its raw file bytes.
func (s *Store) GetMaterial(id int64) (model.Material, error) {
	m, err := scanMaterial(s.db.QueryRow(
		`SELECT `+materialColumns+` FROM revision_materials WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return m, apperr.New(apperr.KindNotFound, "Material not found")
	}
	return m, err
}

// ListMaterials returns materials, optionally filtered by topic, newest
// upload first (the listing order the API exposes).
func (s *Store) ListMaterials(topicID int64) ([]model.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM revision_materials`
	var args []any
	if topicID != 0 {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY uploaded_at DESC, id DESC`
	return s.queryMaterials(query, args...)
}

// ListMaterialsForTopics returns the materials of the given topics in
// generation order: grouped by topic, oldest upload first.
func (s *Store) ListMaterialsForTopics(topicIDs []int64) ([]model.Material, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(topicIDs)), ",")
	query := fmt.Sprintf(
		`SELECT %s FROM revision_materials WHERE topic_id IN (%s) ORDER BY topic_id, uploaded_at ASC, id ASC`,
		materialColumns, placeholders)
	args := make([]any, len(topicIDs))
	for i, id := range topicIDs {
		args[i] = id
	}
	return s.queryMaterials(query, args...)
}

func (s *Store) queryMaterials(query string, args ...any) ([]model.Material, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var materials []model.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// UpdateMaterialContent backfills extracted text onto a material so later
// generation passes skip extraction.
func (s *Store) UpdateMaterialContent(id int64, content string) error {
	_, err := s.db.Exec(`UPDATE revision_materials SET content = ? WHERE id = ?`, content, id)
	return err
}

// DeleteMaterial removes a material; exams generated from it cascade away.
func (s *Store) DeleteMaterial(id int64) error {
	if _, err := s.GetMaterial(id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM revision_materials WHERE id = ?`, id)
	return err
}
