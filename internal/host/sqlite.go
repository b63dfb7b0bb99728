package host

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SqliteDB wraps a *sql.DB opened against the pure-Go modernc.org/sqlite
// driver so it can be handed to a reduction as an additional_bindings entry
// (spec.md §6) — a host object like any other, reachable via the same
// reflection path Reflect already walks for every other Go value.
type SqliteDB struct {
	db *sql.DB
}

// OpenSqlite opens dsn (e.g. "file::memory:?cache=shared" or a file path)
// against the modernc.org/sqlite driver.
func OpenSqlite(dsn string) (*SqliteDB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", dsn, err)
	}
	return &SqliteDB{db: db}, nil
}

// Exec runs a statement with no expected rows (DDL, INSERT/UPDATE/DELETE).
func (s *SqliteDB) Exec(query string, args ...any) (int64, error) {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// QueryRows runs query and returns every result row as a map keyed by
// column name — a Go value shape the reducer's host contract can reflect
// over (a []map[string]any) without a dedicated result-set kind.
func (s *SqliteDB) QueryRows(query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *SqliteDB) Close() error { return s.db.Close() }
