// Package store persists signatures per compilation unit and declaration
// in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/signature"
	"github.com/funvibe/stc/internal/typesystem"
)

// ErrNotFound is returned when no signature is stored for a declaration.
var ErrNotFound = errors.New("signature not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS signatures (
	unit      TEXT    NOT NULL,
	decl      TEXT    NOT NULL,
	signature TEXT    NOT NULL,
	version   INTEGER NOT NULL,
	PRIMARY KEY (unit, decl)
)`

// Store is a signature database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	log *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store messages to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	// one connection: a second one would see a different in-memory database
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing store %s: %w", path, err)
	}
	s.log.Printf("[store] opened %s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put encodes t and stores it for decl in unit, replacing any previous
// signature. It returns the stored signature.
func (s *Store) Put(ctx context.Context, unit, decl string, t typesystem.Type) (string, error) {
	sig, err := signature.Encode(t)
	if err != nil {
		return "", err
	}
	if err := s.PutSignature(ctx, unit, decl, sig); err != nil {
		return "", err
	}
	return sig, nil
}

// PutSignature stores an already encoded signature.
func (s *Store) PutSignature(ctx context.Context, unit, decl, sig string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signatures (unit, decl, signature, version) VALUES (?, ?, ?, ?)
		ON CONFLICT (unit, decl) DO UPDATE SET signature = excluded.signature, version = excluded.version`,
		unit, decl, sig, int(config.SignatureFormatVersion))
	if err != nil {
		return fmt.Errorf("storing %s/%s: %w", unit, decl, err)
	}
	s.log.Printf("[store] put %s/%s", unit, decl)
	return nil
}

// Signature returns the stored signature text of decl in unit.
func (s *Store) Signature(ctx context.Context, unit, decl string) (string, error) {
	var sig string
	err := s.db.QueryRowContext(ctx,
		`SELECT signature FROM signatures WHERE unit = ? AND decl = ?`, unit, decl).Scan(&sig)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s/%s: %w", unit, decl, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading %s/%s: %w", unit, decl, err)
	}
	return sig, nil
}

// Get loads and decodes the signature of decl in unit, resolving names with r.
func (s *Store) Get(ctx context.Context, unit, decl string, r typesystem.Resolver) (typesystem.Type, error) {
	sig, err := s.Signature(ctx, unit, decl)
	if err != nil {
		return nil, err
	}
	return signature.Decode(sig, r)
}

// Declarations returns the declarations stored for unit, sorted.
func (s *Store) Declarations(ctx context.Context, unit string) ([]string, error) {
	return s.strings(ctx, `SELECT decl FROM signatures WHERE unit = ? ORDER BY decl`, unit)
}

// Units returns the stored compilation units, sorted.
func (s *Store) Units(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT unit FROM signatures ORDER BY unit`)
}

// DeleteUnit removes every signature of unit and returns how many were removed.
func (s *Store) DeleteUnit(ctx context.Context, unit string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signatures WHERE unit = ?`, unit)
	if err != nil {
		return 0, fmt.Errorf("deleting %s: %w", unit, err)
	}
	return res.RowsAffected()
}

func (s *Store) strings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
