package conversation

import (
	"os"
	"path/filepath"
	"strings"
)

// SessionStore persists the conversation session identifier across restarts.
// The identifier is the only durable state this subsystem writes.
type SessionStore interface {
	// Load returns the stored identifier, or "" when none is stored.
	Load() (string, error)
	Save(id string) error
	Clear() error
}

// FileStore keeps the identifier in a single file. Writes happen
// synchronously on every change so an abrupt shutdown cannot lose it.
type FileStore struct {
	path string
}

// NewFileStore builds a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(id), 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
