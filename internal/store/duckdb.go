// Package store persists parsed feature trees into a queryable DuckDB
// table. It is a collaborator of the parser core, never a dependency of it:
// the core hands finished trees across the gff.FeatureWriter seam and this
// package flattens them, parent rows before child rows.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/tjparnell/gffkit/internal/gff"
)

// Store manages a DuckDB connection holding a features table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an empty
// string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the features table if it does not exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS features (
		primary_id VARCHAR,
		name VARCHAR,
		seq_id VARCHAR,
		source VARCHAR,
		type VARCHAR,
		start BIGINT,
		"end" BIGINT,
		strand TINYINT,
		score DOUBLE,
		phase TINYINT,
		parent_ids VARCHAR,
		autogenerated BOOLEAN
	)`)
	return err
}

// WriteHeader implements gff.FeatureWriter. The schema is the header.
func (s *Store) WriteHeader() error {
	return nil
}

// Write inserts one top-level feature and its whole subtree.
func (s *Store) Write(f *gff.Feature) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO features
		(primary_id, name, seq_id, source, type, start, "end", strand, score, phase, parent_ids, autogenerated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var werr error
	f.Walk(func(feat *gff.Feature) {
		if werr != nil {
			return
		}
		var score sql.NullFloat64
		if feat.Score != nil {
			score = sql.NullFloat64{Float64: *feat.Score, Valid: true}
		}
		var phase sql.NullInt32
		if feat.Phase >= 0 {
			phase = sql.NullInt32{Int32: int32(feat.Phase), Valid: true}
		}
		_, werr = stmt.Exec(feat.PrimaryID, feat.Name, feat.SeqID, feat.Source,
			feat.Type, feat.Start, feat.End, feat.Strand, score, phase,
			strings.Join(feat.ParentIDs, ","), feat.Autogenerated)
	})
	if werr != nil {
		tx.Rollback()
		return fmt.Errorf("insert feature %s: %w", f.PrimaryID, werr)
	}

	return tx.Commit()
}

// Flush implements gff.FeatureWriter. Inserts are committed per tree.
func (s *Store) Flush() error {
	return nil
}

// Count returns the number of stored feature rows.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT count(*) FROM features`).Scan(&n)
	return n, err
}

// CountByType returns the number of stored rows per feature type.
func (s *Store) CountByType() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT type, count(*) FROM features GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
