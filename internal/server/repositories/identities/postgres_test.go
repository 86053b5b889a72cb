package identities

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/server/models"
)

const (
	findQ = `(?s)^\s*SELECT\s+user_id\s+FROM\s+user_identities\s+WHERE\s+provider\s*=\s*\$1\s+AND\s+subject\s*=\s*\$2\s*$`
	linkQ = `(?s)^\s*INSERT\s+INTO\s+user_identities\s*\(provider,\s*subject,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
)

func newRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFind(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(findQ).WithArgs("google", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u-1"))
	uid, err := repo.Find(context.Background(), "google", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	mock.ExpectQuery(findQ).WithArgs("apple", "sub-2").WillReturnError(sql.ErrNoRows)
	_, err = repo.Find(context.Background(), "apple", "sub-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(findQ).WithArgs("apple", "sub-3").WillReturnError(errors.New("db down"))
	_, err = repo.Find(context.Background(), "apple", "sub-3")
	assert.ErrorContains(t, err, "db error: db down")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLink(t *testing.T) {
	repo, mock := newRepo(t)
	id := models.Identity{Provider: "google", Subject: "sub-1", UserID: "u-1"}

	mock.ExpectExec(linkQ).WithArgs("google", "sub-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Link(context.Background(), id))

	mock.ExpectExec(linkQ).WithArgs("google", "sub-1", "u-1").WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, repo.Link(context.Background(), id), common.ErrorAlreadyExists)

	mock.ExpectExec(linkQ).WithArgs("google", "sub-1", "u-1").WillReturnError(errors.New("boom"))
	assert.Error(t, repo.Link(context.Background(), id))

	assert.NoError(t, mock.ExpectationsWereMet())
}
