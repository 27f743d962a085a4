package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	apperrors "eatfit/internal/errors"
	"eatfit/internal/model"
)

// Session is the durable record of the current login: the bearer token and
// the last profile the server returned. An empty token means logged out.
type Session struct {
	Token   string             `json:"token"`
	Profile *model.UserProfile `json:"profile,omitempty"`
}

// Store defines the interface for session persistence.
type Store interface {
	Load() (Session, error)
	SaveToken(token string) error
	SaveProfile(profile *model.UserProfile) error
	Clear() error
}

// FileStore keeps the session in a single JSON file. It fails safe: a read
// error behaves like an absent session, and a nil receiver is a no-op store.
type FileStore struct {
	path string
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", apperrors.NewStorageError("locate config dir", err)
	}
	return filepath.Join(dir, "eatfit", "session.json"), nil
}

// Load reads the persisted session. A missing or unreadable file yields the
// zero Session and, for genuine read failures, a StorageError the caller is
// expected to log and otherwise ignore.
func (s *FileStore) Load() (Session, error) {
	if s == nil || s.path == "" {
		return Session{}, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, apperrors.NewStorageError("read", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// corrupt file: behave like no session
		return Session{}, apperrors.NewStorageError("decode", err)
	}
	return sess, nil
}

// SaveToken persists the bearer token, keeping any cached profile.
func (s *FileStore) SaveToken(token string) error {
	return s.mutate(func(sess *Session) {
		sess.Token = token
	})
}

// SaveProfile persists the cached profile blob, keeping the token.
func (s *FileStore) SaveProfile(profile *model.UserProfile) error {
	return s.mutate(func(sess *Session) {
		sess.Profile = profile
	})
}

// Clear removes the session file. Removing an absent file is not an error,
// which makes logout idempotent.
func (s *FileStore) Clear() error {
	if s == nil || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.NewStorageError("clear", err)
	}
	return nil
}

func (s *FileStore) mutate(fn func(*Session)) error {
	if s == nil || s.path == "" {
		return nil
	}
	sess, _ := s.Load() // read errors degrade to an empty session
	fn(&sess)
	return s.write(sess)
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return apperrors.NewStorageError("encode", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.NewStorageError("mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.json")
	if err != nil {
		return apperrors.NewStorageError("write", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	return nil
}
