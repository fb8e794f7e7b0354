package vocab

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/smarttags/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tags (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS aliases (
	tag_position INTEGER NOT NULL,
	position     INTEGER NOT NULL,
	alias        TEXT NOT NULL,
	PRIMARY KEY (tag_position, position)
);
`

// SQLiteStore keeps the vocabulary in a SQLite database. Each Save replaces
// the whole snapshot inside one transaction.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a store for the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database location.
func (s *SQLiteStore) Path() string { return s.path }

// Load reads the snapshot. A missing file is not created; it and any
// unreadable database content yield an empty vocabulary.
func (s *SQLiteStore) Load() (*Vocabulary, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, &apperr.IOError{Op: "stat vocabulary", Path: s.path, Err: err}
	}

	conn, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return New(), nil
	}
	defer conn.Close()

	v, err := readSnapshot(conn)
	if err != nil {
		return New(), nil
	}
	return v, nil
}

func readSnapshot(conn *sql.DB) (*Vocabulary, error) {
	rows, err := conn.Query(`SELECT position, name FROM tags ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	v := New()
	index := make(map[int64]int)
	for rows.Next() {
		var pos int64
		var name string
		if err := rows.Scan(&pos, &name); err != nil {
			return nil, err
		}
		index[pos] = v.AddTag(name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := conn.Query(`SELECT tag_position, alias FROM aliases ORDER BY tag_position, position`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var pos int64
		var alias string
		if err := arows.Scan(&pos, &alias); err != nil {
			return nil, err
		}
		if i, ok := index[pos]; ok {
			v.AddAlias(i, alias)
		}
	}
	return v, arows.Err()
}

// Save replaces the stored snapshot with v, creating the database and its
// parent directory when needed. A file that is not a readable database is
// replaced by a freshly built one.
func (s *SQLiteStore) Save(v *Vocabulary) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &apperr.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	op, err := saveInto(s.path+"?_journal_mode=WAL&_busy_timeout=5000", v)
	if err == nil {
		return nil
	}
	if !isCorrupt(err) {
		return &apperr.IOError{Op: op, Path: s.path, Err: err}
	}
	return s.rebuild(v)
}

// rebuild writes v to a new database next to the store and renames it over
// the unreadable file.
func (s *SQLiteStore) rebuild(v *Vocabulary) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".smarttags-tmp-*.db")
	if err != nil {
		return &apperr.IOError{Op: "create temp", Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	_ = tmp.Close()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if op, err := saveInto(tmpName+"?_busy_timeout=5000", v); err != nil {
		return &apperr.IOError{Op: op, Path: tmpName, Err: err}
	}
	// Journals of the old file must not be replayed onto the new one.
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &apperr.IOError{Op: "remove journal", Path: s.path + suffix, Err: err}
		}
	}
	if info, err := os.Stat(s.path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpName, 0o644)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &apperr.IOError{Op: "rename", Path: s.path, Err: err}
	}
	success = true
	return nil
}

// saveInto applies the schema and writes v to the database at dsn. On failure
// it also names the step that failed.
func saveInto(dsn string, v *Vocabulary) (string, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return "open vocabulary", err
	}
	defer conn.Close()

	if _, err := conn.Exec(schemaSQL); err != nil {
		return "apply schema", err
	}
	if err := writeSnapshot(conn, v); err != nil {
		return "write vocabulary", err
	}
	return "", conn.Close()
}

func isCorrupt(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrNotADB || se.Code == sqlite3.ErrCorrupt
}

func writeSnapshot(conn *sql.DB, v *Vocabulary) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`DELETE FROM aliases`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tags`); err != nil {
		return err
	}

	tagStmt, err := tx.Prepare(`INSERT INTO tags (position, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tag insert: %w", err)
	}
	defer tagStmt.Close()
	aliasStmt, err := tx.Prepare(`INSERT INTO aliases (tag_position, position, alias) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare alias insert: %w", err)
	}
	defer aliasStmt.Close()

	for i, e := range v.Tags {
		if _, err := tagStmt.Exec(i, e.Name); err != nil {
			return fmt.Errorf("insert tag %q: %w", e.Name, err)
		}
		for j, a := range e.Aliases {
			if _, err := aliasStmt.Exec(i, j, a); err != nil {
				return fmt.Errorf("insert alias %q: %w", a, err)
			}
		}
	}
	return tx.Commit()
}
