package tokenstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite key/value table. Rows are
// namespaced by profile so one database can hold several console profiles.
type SQLiteStore struct {
	db      *sql.DB
	profile string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath.
// If dbPath is empty, uses ~/.revenueguard/session.db
func NewSQLiteStore(dbPath, profile string) (*SQLiteStore, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".revenueguard", "session.db")
	}
	if profile == "" {
		profile = "default"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a single writer keeps SQLITE_BUSY out of the picture
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, profile: profile}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Str("profile", profile).Msg("sqlite token store initialized")

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS session_values (
		profile TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (profile, key)
	);`)
	return err
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_values (profile, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.profile, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_values WHERE profile = ? AND key = ?`, s.profile, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("key", key).Msg("failed to read token store")
		}
		return "", false
	}
	return value, true
}

func (s *SQLiteStore) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, s.profile)
	for _, key := range keys {
		args = append(args, key)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	query := `DELETE FROM session_values WHERE profile = ? AND key IN (` + placeholders + `)`

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("clear keys: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM session_values WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
