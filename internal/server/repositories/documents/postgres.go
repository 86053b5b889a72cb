// Package documents stores schemaless JSON documents keyed by collection
// and id in a JSONB column.
package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/dbx"
	"github.com/dmitrijs2005/ele/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an absent document.
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	// Put creates the document or replaces its body.
	Put(ctx context.Context, collection, id string, fields map[string]any) error
	// Merge creates the document or overwrites only the given top-level keys.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `
		SELECT fields, updated_at FROM documents
		WHERE collection = $1 AND id = $2
	`
	var raw []byte
	doc := &models.Document{Collection: collection, ID: id}
	if err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return doc, nil
}

func (r *PostgresRepository) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.upsert(ctx, `
		INSERT INTO documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()
	`, collection, id, fields)
}

func (r *PostgresRepository) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.upsert(ctx, `
		INSERT INTO documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET fields = documents.fields || EXCLUDED.fields, updated_at = now()
	`, collection, id, fields)
}

func (r *PostgresRepository) upsert(ctx context.Context, query, collection, id string, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, collection, id, string(raw)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
