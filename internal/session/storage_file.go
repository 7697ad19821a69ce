package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spec-kit/station-console/internal/domain"
)

// FileStorage keeps the session record in a JSON state file.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage backed by the given state file.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the state file. A missing file means no session.
func (s *FileStorage) Load(_ context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Identifier == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session record, creating the state directory if needed.
func (s *FileStorage) Save(_ context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the state file.
func (s *FileStorage) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
