package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Store is the local state file. It holds the token pair and the cached user
// identity, nothing else; server state is always re-fetched.
type Store struct {
	Dir string
}

// Session is the persisted slice of auth state.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       int
	Username     string
}

// Empty reports whether there is no stored token pair.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

func (s Store) path() string {
	return filepath.Join(s.Dir, "state.sqlite")
}

func (s Store) ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS session (
  k TEXT PRIMARY KEY,
  v TEXT NOT NULL
);`)
	return err
}

const (
	keyAccess   = "access_token"
	keyRefresh  = "refresh_token"
	keyUserID   = "user_id"
	keyUsername = "username"
)

// LoadSession returns the stored session, or a zero Session when nothing is
// stored yet.
func (s Store) LoadSession(ctx context.Context) (Session, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Session{}, err
	}
	defer db.Close()

	get := func(k string) (string, error) {
		var v string
		err := db.QueryRowContext(ctx, `SELECT v FROM session WHERE k = ?`, k).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return v, err
	}

	var sess Session
	if sess.AccessToken, err = get(keyAccess); err != nil {
		return Session{}, err
	}
	if sess.RefreshToken, err = get(keyRefresh); err != nil {
		return Session{}, err
	}
	if sess.Username, err = get(keyUsername); err != nil {
		return Session{}, err
	}
	idStr, err := get(keyUserID)
	if err != nil {
		return Session{}, err
	}
	if idStr != "" {
		// Ignore a corrupt id: the profile re-fetch on next login repairs it.
		if id, convErr := strconv.Atoi(idStr); convErr == nil {
			sess.UserID = id
		}
	}
	return sess, nil
}

func (s Store) SaveSession(ctx context.Context, sess Session) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	put := func(k, v string) error {
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO session(k, v) VALUES(?, ?)`, k, v)
		return err
	}
	if err := put(keyAccess, sess.AccessToken); err != nil {
		return err
	}
	if err := put(keyRefresh, sess.RefreshToken); err != nil {
		return err
	}
	if err := put(keyUsername, sess.Username); err != nil {
		return err
	}
	if err := put(keyUserID, strconv.Itoa(sess.UserID)); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearSession removes all stored auth state (logout).
func (s Store) ClearSession(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

