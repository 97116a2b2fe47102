package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const sessionFile = "session.json"

// document is the on-disk layout of the file store.
type document struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// FileStore persists session state as a JSON document on the local
// filesystem so it survives process restarts.
type FileStore struct {
	baseDir string

	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// DefaultFileDir returns ~/.revenueguard/session.
func DefaultFileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".revenueguard", "session"), nil
}

// NewFileStore creates a file backed store.
// If baseDir is empty, uses DefaultFileDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultFileDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &FileStore{baseDir: baseDir}

	if err := store.ensureDocument(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("token store initialized")

	return store, nil
}

// Set stores value under key.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Values[key] = value

	return s.save(doc)
}

// Get returns the value stored under key. An unreadable document is
// treated as empty.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to read token store")
		return "", false
	}

	value, ok := doc.Values[key]
	return value, ok
}

// Clear removes keys from the document.
func (s *FileStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for _, key := range keys {
		if _, ok := doc.Values[key]; ok {
			delete(doc.Values, key)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return s.save(doc)
}

// ClearAll empties the document.
func (s *FileStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(newDocument())
}

func newDocument() *document {
	return &document{
		Version: 1,
		Values:  make(map[string]string),
	}
}

func (s *FileStore) path() string {
	return filepath.Join(s.baseDir, sessionFile)
}

// ensureDocument creates an empty document if it doesn't exist.
func (s *FileStore) ensureDocument() error {
	if _, err := os.Stat(s.path()); err == nil {
		return nil
	}

	return s.save(newDocument())
}

func (s *FileStore) load() (*document, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}

	return &doc, nil
}

// save writes the document atomically.
func (s *FileStore) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first
	tempPath := s.path() + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
