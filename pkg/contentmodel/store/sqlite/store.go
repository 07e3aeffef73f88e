// Package sqlite implements contentmodel.Store on an embedded SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tendant/content-model/pkg/contentmodel"
)

const createContentTypes = `CREATE TABLE IF NOT EXISTS content_types (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    type_group TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    last_modified TEXT NOT NULL
);`

// Store is a SQLite-backed descriptor store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createContentTypes); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT body, created_at, last_modified FROM content_types WHERE id = ?", id)
	t, err := hydrateContentType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contentmodel.ErrContentTypeNotFound
		}
		return nil, fmt.Errorf("getting content type %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT body, created_at, last_modified FROM content_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing content types: %w", err)
	}
	defer rows.Close()

	var types []*contentmodel.ContentType
	for rows.Next() {
		t, err := hydrateContentType(rows)
		if err != nil {
			return nil, fmt.Errorf("listing content types: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *Store) Save(ctx context.Context, t *contentmodel.ContentType) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding content type %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO content_types (id, title, type_group, body, created_at, last_modified)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   title = excluded.title,
		   type_group = excluded.type_group,
		   body = excluded.body,
		   last_modified = excluded.last_modified`,
		t.ID, t.Title, t.Group, string(body),
		t.Created.UTC().Format(time.RFC3339Nano),
		t.LastModified.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("persisting content type %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM content_types WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting content type %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting content type %s: %w", id, err)
	}
	if n == 0 {
		return contentmodel.ErrContentTypeNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func hydrateContentType(row scanner) (*contentmodel.ContentType, error) {
	var body, created, lastModified string
	if err := row.Scan(&body, &created, &lastModified); err != nil {
		return nil, err
	}
	var t contentmodel.ContentType
	if err := json.Unmarshal([]byte(body), &t); err != nil {
		return nil, fmt.Errorf("decoding content type: %w", err)
	}
	var err error
	if t.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.LastModified, err = time.Parse(time.RFC3339Nano, lastModified); err != nil {
		return nil, fmt.Errorf("parsing last_modified: %w", err)
	}
	return &t, nil
}
