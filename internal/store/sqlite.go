// ABOUTME: SQLite connection ownership and idempotent schema creation
// ABOUTME: Referential checks live in schema triggers so parent deletes keep history

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore owns the shelter database connection.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the shelter database at the given path.
// The schema is created if it doesn't exist. Parent directories are created
// if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas are per-connection and database/sql pools connections, so
	// they go through the DSN to reach every connection the pool opens.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("shelter store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS animals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			specie TEXT NOT NULL,
			breed TEXT NOT NULL,
			sex TEXT NOT NULL,
			birth_month INTEGER,
			birth_year INTEGER,
			neutered BOOLEAN NOT NULL,
			admission_timestamp INTEGER NOT NULL,
			status TEXT NOT NULL,
			image_path TEXT,
			appearance TEXT NOT NULL,
			bio TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_animals_status ON animals(status);
		CREATE INDEX IF NOT EXISTS idx_animals_specie_breed ON animals(specie, breed);

		CREATE TABLE IF NOT EXISTS adoption_requests (
			id TEXT PRIMARY KEY,
			animal_id TEXT NOT NULL,
			username TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			tel_number TEXT NOT NULL,
			address TEXT NOT NULL,
			occupation TEXT NOT NULL,
			annual_income TEXT NOT NULL,
			num_people INTEGER NOT NULL,
			num_children INTEGER NOT NULL,
			request_timestamp INTEGER NOT NULL,
			adoption_timestamp INTEGER NOT NULL,
			status TEXT NOT NULL,
			country TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_requests_animal ON adoption_requests(animal_id);
		CREATE INDEX IF NOT EXISTS idx_requests_username ON adoption_requests(username);

		-- animal_id must reference an existing animal whenever a request row
		-- is written. A declared FOREIGN KEY would also block deleting an
		-- animal that still has requests; these triggers enforce the
		-- reference on child writes only, so adoption history survives the
		-- animal record.
		CREATE TRIGGER IF NOT EXISTS trg_requests_animal_insert
		BEFORE INSERT ON adoption_requests
		FOR EACH ROW
		WHEN NOT EXISTS (SELECT 1 FROM animals WHERE id = NEW.animal_id)
		BEGIN
			SELECT RAISE(ABORT, 'FOREIGN KEY constraint failed');
		END;

		CREATE TRIGGER IF NOT EXISTS trg_requests_animal_update
		BEFORE UPDATE ON adoption_requests
		FOR EACH ROW
		WHEN NEW.animal_id <> OLD.animal_id
			AND NOT EXISTS (SELECT 1 FROM animals WHERE id = NEW.animal_id)
		BEGIN
			SELECT RAISE(ABORT, 'FOREIGN KEY constraint failed');
		END;

		CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			detail_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_activity_ts ON activity_log(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_activity_actor ON activity_log(actor);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing shelter store")
	return s.db.Close()
}

// isConstraintViolation reports whether err is a uniqueness or referential
// constraint failure. Other constraint classes (NOT NULL, CHECK) are not
// conflicts and stay hard errors.
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		return true
	}
	return false
}

// nextID returns max(numeric id)+1 for the given table as a string.
// Safe only because all writes go through a single process; a broader
// concurrency model would need a real sequence.
func (s *SQLiteStore) nextID(ctx context.Context, table string) (string, error) {
	// Table name is one of two fixed literals, never caller-supplied.
	var maxID int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return "", fmt.Errorf("querying max id from %s: %w", table, err)
	}
	return fmt.Sprintf("%d", maxID+1), nil
}
