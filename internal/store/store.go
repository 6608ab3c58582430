package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
)

// Store wraps the SQLite connection pool. It is constructed once at startup
// and passed into every component; there is no implicit global handle.
type Store struct {
	db *sql.DB

	// examInsertHook runs between the version read and the exam insert.
	// Tests use it to force a concurrent writer into the race window.
	examInsertHook func()
}

// New opens the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Migrate creates the schema. Cascades mirror the relationships the scoring
// history depends on: deleting a subject removes its topics, materials,
// exams, and attempts, while performance and confidence rows are detached
// (references nulled) so historical scores survive.
func (s *Store) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subjects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS topics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_type TEXT NOT NULL,
		subject_id INTEGER REFERENCES subjects(id) ON DELETE SET NULL,
		topic_id INTEGER REFERENCES topics(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date DATETIME,
		deadline DATETIME,
		status TEXT NOT NULL DEFAULT 'pending',
		importance INTEGER NOT NULL DEFAULT 3,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS revision_materials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT,
		file_data BLOB,
		file_name TEXT NOT NULL DEFAULT '',
		file_type TEXT NOT NULL DEFAULT '',
		uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS exams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		revision_material_id INTEGER REFERENCES revision_materials(id) ON DELETE CASCADE,
		topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		version_number INTEGER NOT NULL DEFAULT 1,
		title TEXT NOT NULL,
		questions TEXT NOT NULL,
		total_questions INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(revision_material_id, version_number)
	);

	-- Subject- and topic-wide exams have no source material; their version
	-- scope is the topic. SQLite's UNIQUE above does not constrain NULL rows,
	-- so a partial index covers that scope.
	CREATE UNIQUE INDEX IF NOT EXISTS exams_topic_version_uq
		ON exams(topic_id, version_number) WHERE revision_material_id IS NULL;

	CREATE TABLE IF NOT EXISTS exam_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
		exam_type TEXT NOT NULL DEFAULT 'exam',
		answers TEXT,
		score INTEGER NOT NULL DEFAULT 0,
		total_correct INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		time_taken INTEGER,
		completed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS confidence_tracking (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic_id INTEGER REFERENCES topics(id) ON DELETE SET NULL,
		exam_id INTEGER REFERENCES exams(id) ON DELETE SET NULL,
		exam_attempt_id INTEGER REFERENCES exam_attempts(id) ON DELETE SET NULL,
		confidence_level INTEGER NOT NULL,
		previous_confidence_level INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		tracked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS performance_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id INTEGER REFERENCES subjects(id) ON DELETE SET NULL,
		topic_id INTEGER REFERENCES topics(id) ON DELETE SET NULL,
		exam_id INTEGER REFERENCES exams(id) ON DELETE SET NULL,
		exam_attempt_id INTEGER REFERENCES exam_attempts(id) ON DELETE SET NULL,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		performance_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// Extended result codes: 2067 = SQLITE_CONSTRAINT_UNIQUE, 1555 =
// SQLITE_CONSTRAINT_PRIMARYKEY.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == 2067 || code == 1555
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isBusy reports whether err is a lock or stale-snapshot failure. Under WAL a
// writer that lost a race sees SQLITE_BUSY_SNAPSHOT instead of a constraint
// error, so version allocation treats both as retryable. Codes: 5 =
// SQLITE_BUSY, 517 = SQLITE_BUSY_SNAPSHOT.
func isBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == 5 || code == 517
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}
