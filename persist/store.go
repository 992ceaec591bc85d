// Package persist provides durable storage for trained model artifacts.
// Every model variant is saved right after training; at the end of a run
// the orchestrator deletes all artifacts except the winner's.
//
// Artifacts are named "{algorithm}.{policyTag}.model" and encoded with gob,
// so the stored value must have its concrete estimator types registered
// (package estimator does this in its init functions).
package persist

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// Store is the durable artifact store contract.
type Store interface {
	// Save encodes model under the given artifact identifier, overwriting
	// any previous artifact with the same identifier.
	Save(artifactID string, model any) error

	// Load decodes the named artifact into model, which must be a pointer.
	Load(artifactID string, model any) error

	// Delete removes the named artifact.
	Delete(artifactID string) error

	// List returns all stored artifact identifiers, sorted.
	List() ([]string, error)
}

const fileSuffix = ".model"

// FileStore keeps one gob file per artifact in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewPersistenceError("init", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(artifactID string) string {
	return filepath.Join(s.dir, artifactID)
}

// Save writes the gob encoding of model to disk.
func (s *FileStore) Save(artifactID string, model any) error {
	file, err := os.Create(s.path(artifactID))
	if err != nil {
		return errors.NewPersistenceError("save", artifactID, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(model); err != nil {
		return errors.NewPersistenceError("save", artifactID, err)
	}
	return nil
}

// Load reads the named artifact into model.
func (s *FileStore) Load(artifactID string, model any) error {
	file, err := os.Open(s.path(artifactID))
	if err != nil {
		return errors.NewPersistenceError("load", artifactID, err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(model); err != nil {
		return errors.NewPersistenceError("load", artifactID, err)
	}
	return nil
}

// Delete removes the artifact file.
func (s *FileStore) Delete(artifactID string) error {
	if err := os.Remove(s.path(artifactID)); err != nil {
		return errors.NewPersistenceError("delete", artifactID, err)
	}
	return nil
}

// List returns the identifiers of all artifacts in the directory.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.NewPersistenceError("list", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

func encode(model any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(model); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, model any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(model)
}
