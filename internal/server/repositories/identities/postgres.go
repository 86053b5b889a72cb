// Package identities maps federated provider subjects to local users.
package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/dbx"
	"github.com/dmitrijs2005/ele/internal/server/models"
)

type Repository interface {
	// Find returns the linked user ID or common.ErrorNotFound.
	Find(ctx context.Context, provider, subject string) (string, error)
	// Link returns common.ErrorAlreadyExists if the subject is already linked.
	Link(ctx context.Context, identity models.Identity) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, provider, subject string) (string, error) {
	query := `
		SELECT user_id FROM user_identities
		WHERE provider = $1 AND subject = $2
	`
	var userID string
	if err := r.db.QueryRowContext(ctx, query, provider, subject).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) Link(ctx context.Context, identity models.Identity) error {
	query := `
		INSERT INTO user_identities (provider, subject, user_id)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, identity.Provider, identity.Subject, identity.UserID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
