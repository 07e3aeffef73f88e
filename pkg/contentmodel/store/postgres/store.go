package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-model/pkg/contentmodel"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements contentmodel.Store using PostgreSQL. Each descriptor is
// one row; regions, routes and editors live in a JSONB document.
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL descriptor store
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL descriptor store with connection pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// EnsureSchema creates the content_types table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return handlePostgresError("ensure schema", err)
	}
	return nil
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return fmt.Errorf("required column %s is missing: %w", pgErr.ColumnName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required: %w", err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s): %w", operation, pgErr.Message, pgErr.Code, err)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const selectColumns = `SELECT body, created_at, last_modified FROM content_types`

func (s *Store) GetByID(ctx context.Context, id string) (*contentmodel.ContentType, error) {
	row := s.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id)
	t, err := scanContentType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentmodel.ErrContentTypeNotFound
		}
		return nil, handlePostgresError("get content type", err)
	}
	return t, nil
}

func (s *Store) GetAll(ctx context.Context) ([]*contentmodel.ContentType, error) {
	rows, err := s.db.Query(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, handlePostgresError("list content types", err)
	}
	defer rows.Close()

	var types []*contentmodel.ContentType
	for rows.Next() {
		t, err := scanContentType(rows)
		if err != nil {
			return nil, handlePostgresError("list content types", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list content types", err)
	}
	return types, nil
}

func (s *Store) Save(ctx context.Context, t *contentmodel.ContentType) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode content type %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO content_types (id, title, type_group, body, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			type_group = EXCLUDED.type_group,
			body = EXCLUDED.body,
			last_modified = EXCLUDED.last_modified`

	_, err = s.db.Exec(ctx, query,
		t.ID, t.Title, t.Group, string(body), t.Created, t.LastModified)
	if err != nil {
		return handlePostgresError("save content type", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM content_types WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete content type", err)
	}
	if tag.RowsAffected() == 0 {
		return contentmodel.ErrContentTypeNotFound
	}
	return nil
}

func scanContentType(row pgx.Row) (*contentmodel.ContentType, error) {
	var (
		body         []byte
		created      time.Time
		lastModified time.Time
	)
	if err := row.Scan(&body, &created, &lastModified); err != nil {
		return nil, err
	}
	var t contentmodel.ContentType
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, fmt.Errorf("decode content type: %w", err)
	}
	t.Created = created.UTC()
	t.LastModified = lastModified.UTC()
	return &t, nil
}
