package tokenstore

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Keys persisted by the console.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyRoles    = "roles"

	chatKeyPrefix = "chat_id."
)

// SessionKeys are the keys that make up an authenticated session. They are
// removed together on logout and when the server rejects the credential.
var SessionKeys = []string{KeyToken, KeyUsername, KeyRoles}

var (
	// ErrUnknownBackend is returned by Open for an unsupported store type.
	ErrUnknownBackend = errors.New("unknown token store backend")
)

// Store is a small persistent key/value store for session state.
//
// Implementations overwrite whole values only, so concurrent writers to
// different keys never interfere and writers to the same key are last
// writer wins.
type Store interface {
	// Set overwrites the value stored under key.
	Set(key, value string) error
	// Get returns the stored value, or false when the key is absent.
	Get(key string) (string, bool)
	// Clear removes the given keys. Missing keys are ignored.
	Clear(keys ...string) error
	// ClearAll removes every key.
	ClearAll() error
}

// ChatKey returns the key holding the chat session id for a chat context
// such as "customer" or "admin".
func ChatKey(context string) string {
	return chatKeyPrefix + context
}

// Backend selects a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// DefaultProfile is the profile whose file store lives directly in the base
// directory.
const DefaultProfile = "default"

// Open creates a store for the given backend. path is a directory for the
// file backend and a database file for sqlite. profile namespaces sqlite
// rows, and for the file backend any profile other than DefaultProfile gets
// its own subdirectory of path.
func Open(backend Backend, path, profile string) (Store, error) {
	switch backend {
	case BackendFile, "":
		if profile == "" || profile == DefaultProfile {
			return NewFileStore(path)
		}
		if path == "" {
			dir, err := DefaultFileDir()
			if err != nil {
				return nil, err
			}
			path = dir
		}
		return NewFileStore(filepath.Join(path, profile))
	case BackendSQLite:
		return NewSQLiteStore(path, profile)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
