// Package repomanager vends repositories bound to a DB handle or a running
// transaction, and applies the embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ele/internal/dbx"
	"github.com/dmitrijs2005/ele/internal/server/repositories/documents"
	"github.com/dmitrijs2005/ele/internal/server/repositories/identities"
	"github.com/dmitrijs2005/ele/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/ele/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ele/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Identities(db dbx.DBTX) identities.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
	Documents(db dbx.DBTX) documents.Repository
}
