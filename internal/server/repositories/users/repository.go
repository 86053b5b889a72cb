// Package users stores accounts in PostgreSQL.
package users

import (
	"context"

	"github.com/dmitrijs2005/ele/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the email is taken
	// (case-insensitively).
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
