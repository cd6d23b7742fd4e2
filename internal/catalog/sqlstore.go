package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// ErrNotFound is returned by SQLStore.Get for unknown class names.
var ErrNotFound = errors.New("catalog: class not found")

const schema = `
CREATE TABLE IF NOT EXISTS classes (
	name      TEXT PRIMARY KEY,
	super     TEXT NOT NULL DEFAULT '',
	modifiers INTEGER NOT NULL DEFAULT 0,
	spec      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS classes_super ON classes(super);
`

// SQLStore keeps class descriptions of external types in a SQLite database,
// so catalogs of large libraries can be imported once and reused across
// builds. Builds do not query the store directly; they run against a
// Snapshot.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens (creating if needed) the store at dsn, e.g. a file path
// or "file::memory:".
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening catalog store %s: %w", dsn, err)
	}
	// A single connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising catalog store %s: %w", dsn, err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Put inserts or replaces class descriptions in one transaction.
func (s *SQLStore) Put(ctx context.Context, defs ...*typesystem.ClassDef) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO classes (name, super, modifiers, spec) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		body, err := yaml.Marshal(Spec(def))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", def.Name, err)
		}
		super := ""
		if !def.Super.IsZero() {
			super = def.Super.String()
		}
		if _, err := stmt.ExecContext(ctx, def.Name, super, int64(def.Modifiers), string(body)); err != nil {
			return fmt.Errorf("storing %s: %w", def.Name, err)
		}
	}
	return tx.Commit()
}

// Import copies every class of a catalog into the store.
func (s *SQLStore) Import(ctx context.Context, m *Memory) error {
	defs := make([]*typesystem.ClassDef, 0, m.Len())
	for _, name := range m.Names() {
		def, _ := m.Class(name)
		defs = append(defs, def)
	}
	return s.Put(ctx, defs...)
}

// Get loads one class description.
func (s *SQLStore) Get(ctx context.Context, name string) (*typesystem.ClassDef, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT spec FROM classes WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return decodeSpec(name, body)
}

// Subclasses returns the names of stored classes whose declared supertype is super.
func (s *SQLStore) Subclasses(ctx context.Context, super string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM classes WHERE super = ? ORDER BY name`, super)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Snapshot loads every stored class into an in-memory catalog.
func (s *SQLStore) Snapshot(ctx context.Context) (*Memory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, spec FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := &Memory{classes: make(map[string]*typesystem.ClassDef)}
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		def, err := decodeSpec(name, body)
		if err != nil {
			return nil, err
		}
		if err := m.Add(def); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSpec(name, body string) (*typesystem.ClassDef, error) {
	var spec ClassSpec
	if err := yaml.Unmarshal([]byte(body), &spec); err != nil {
		return nil, fmt.Errorf("decoding stored class %s: %w", name, err)
	}
	return spec.Build(false)
}
