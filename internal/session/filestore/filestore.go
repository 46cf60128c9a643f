// Package filestore persists a session to a single JSON file in the user's
// config directory. The token and user keys are written in one atomic
// rename so a reader never sees one without the other.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/session"
)

const (
	fileName    = "session.json"
	fileVersion = 1
)

// sessionFile is the on-disk layout. Keys holds the two session slots,
// each a string; the user slot is itself serialized JSON.
type sessionFile struct {
	Version  int               `json:"version"`
	Keys     map[string]string `json:"keys"`
	Checksum string            `json:"checksum"`
}

// Store implements session.Persistence on the local filesystem.
type Store struct {
	baseDir string
}

var _ session.Persistence = (*Store)(nil)

// New creates a file store.
// If baseDir is empty, uses ~/.ecotrack/
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".ecotrack")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session file store initialized")

	return &Store{baseDir: baseDir}, nil
}

// Path returns the location of the session file.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, fileName)
}

// Load reads the session file. It returns session.ErrSessionNotFound when
// the file is absent and session.ErrCorruptSession when it cannot be
// parsed, fails its checksum, or holds only one of the two keys.
func (s *Store) Load(ctx context.Context) (*session.Record, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrCorruptSession, err)
	}

	if f.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", session.ErrCorruptSession, f.Version)
	}

	token, hasToken := f.Keys[session.TokenKey]
	userJSON, hasUser := f.Keys[session.UserKey]
	if !hasToken && !hasUser {
		return nil, session.ErrSessionNotFound
	}
	if !hasToken || !hasUser {
		return nil, fmt.Errorf("%w: token and user must both be present", session.ErrCorruptSession)
	}

	if f.Checksum != checksum(token, userJSON) {
		return nil, fmt.Errorf("%w: checksum mismatch", session.ErrCorruptSession)
	}

	var user session.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: user: %v", session.ErrCorruptSession, err)
	}

	return &session.Record{Token: token, User: user}, nil
}

// Save writes both keys in a single atomic replace of the session file.
func (s *Store) Save(ctx context.Context, rec session.Record) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	f := sessionFile{
		Version: fileVersion,
		Keys: map[string]string{
			session.TokenKey: rec.Token,
			session.UserKey:  string(userJSON),
		},
		Checksum: checksum(rec.Token, string(userJSON)),
	}

	if err := s.writeFile(f); err != nil {
		return err
	}

	log.Debug().Str("path", s.Path()).Msg("session saved")

	return nil
}

// Clear removes the session file. Clearing an absent file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	log.Debug().Str("path", s.Path()).Msg("session cleared")

	return nil
}

// writeFile writes the session file atomically.
func (s *Store) writeFile(f sessionFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to a temp file in the same directory first
	path := s.Path()
	tmp, err := os.CreateTemp(s.baseDir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tempPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// writeAndSync writes data and flushes it to disk before closing f.
func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// checksum is the CRC64-NVME of both slots, separated by a NUL byte.
func checksum(token, userJSON string) string {
	h := crc64nvme.New()
	h.Write([]byte(token))
	h.Write([]byte{0})
	h.Write([]byte(userJSON))
	return strconv.FormatUint(h.Sum64(), 16)
}
