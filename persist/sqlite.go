package persist

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Schema for the artifacts table. Applied by NewSQLiteStore.
const Schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

// SQLiteStore keeps artifacts as gob blobs in a single SQLite database.
// Useful when a run's artifacts should travel as one file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the artifacts table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewPersistenceError("init", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, errors.NewPersistenceError("init", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the gob encoding of model.
func (s *SQLiteStore) Save(artifactID string, model any) error {
	payload, err := encode(model)
	if err != nil {
		return errors.NewPersistenceError("save", artifactID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO artifacts (id, payload) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		artifactID, payload)
	if err != nil {
		return errors.NewPersistenceError("save", artifactID, err)
	}
	return nil
}

// Load decodes the named artifact into model.
func (s *SQLiteStore) Load(artifactID string, model any) error {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM artifacts WHERE id = ?`, artifactID).Scan(&payload)
	if err != nil {
		return errors.NewPersistenceError("load", artifactID, err)
	}
	if err := decode(payload, model); err != nil {
		return errors.NewPersistenceError("load", artifactID, err)
	}
	return nil
}

// Delete removes the named artifact. Deleting a missing artifact is an
// error, matching FileStore behavior.
func (s *SQLiteStore) Delete(artifactID string) error {
	res, err := s.db.Exec(`DELETE FROM artifacts WHERE id = ?`, artifactID)
	if err != nil {
		return errors.NewPersistenceError("delete", artifactID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("delete", artifactID, err)
	}
	if n == 0 {
		return errors.NewPersistenceError("delete", artifactID, errors.New("artifact not found"))
	}
	return nil
}

// List returns all artifact identifiers, sorted.
func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM artifacts ORDER BY id`)
	if err != nil {
		return nil, errors.NewPersistenceError("list", "", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewPersistenceError("list", "", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("list", "", err)
	}
	return ids, nil
}
