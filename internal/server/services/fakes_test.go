package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/dbx"
	"github.com/dmitrijs2005/ele/internal/server/auth"
	"github.com/dmitrijs2005/ele/internal/server/models"
	"github.com/dmitrijs2005/ele/internal/server/repositories/documents"
	"github.com/dmitrijs2005/ele/internal/server/repositories/identities"
	"github.com/dmitrijs2005/ele/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/ele/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ele/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore is an in-memory backing for every repository fake.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*models.User
	identities map[string]string
	refresh    map[string]*models.RefreshToken
	resets     map[string]*models.PasswordReset
	docs       map[string]map[string]any
	nextID     int

	createErr error
	findErr   error
	linkErr   error
	docErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		identities: map[string]string{},
		refresh:    map[string]*models.RefreshToken{},
		resets:     map[string]*models.PasswordReset{},
		docs:       map[string]map[string]any{},
	}
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return (*fakeUsers)(m.s) }
func (m *fakeRepoManager) Identities(dbx.DBTX) identities.Repository  { return (*fakeIdentities)(m.s) }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return (*fakeRefresh)(m.s)
}
func (m *fakeRepoManager) PasswordResets(dbx.DBTX) passwordresets.Repository {
	return (*fakeResets)(m.s)
}
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository { return (*fakeDocs)(m.s) }

type fakeUsers memStore

func (f *fakeUsers) Create(_ context.Context, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	u := &models.User{ID: fmt.Sprintf("u%d", f.nextID), Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeIdentities memStore

func (f *fakeIdentities) Find(_ context.Context, provider, subject string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.identities[provider+"/"+subject]; ok {
		return id, nil
	}
	return "", common.ErrorNotFound
}

func (f *fakeIdentities) Link(_ context.Context, i models.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.identities[i.Provider+"/"+i.Subject] = i.UserID
	return nil
}

type fakeRefresh memStore

func (f *fakeRefresh) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefresh) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.refresh[token]; ok {
		return rt, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefresh) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, token)
	return nil
}

type fakeResets memStore

func (f *fakeResets) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[token] = &models.PasswordReset{Token: token, UserID: userID, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeResets) Find(_ context.Context, token string) (*models.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pr, ok := f.resets[token]; ok {
		return pr, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResets) DeleteForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range f.resets {
		if v.UserID == userID {
			delete(f.resets, k)
		}
	}
	return nil
}

type fakeDocs memStore

func (f *fakeDocs) Get(_ context.Context, collection, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docErr != nil {
		return nil, f.docErr
	}
	fields, ok := f.docs[collection+"/"+id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Document{Collection: collection, ID: id, Fields: fields}, nil
}

func (f *fakeDocs) Put(_ context.Context, collection, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docErr != nil {
		return f.docErr
	}
	f.docs[collection+"/"+id] = fields
	return nil
}

func (f *fakeDocs) Merge(_ context.Context, collection, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docErr != nil {
		return f.docErr
	}
	cur := f.docs[collection+"/"+id]
	if cur == nil {
		cur = map[string]any{}
	}
	for k, v := range fields {
		cur[k] = v
	}
	f.docs[collection+"/"+id] = cur
	return nil
}

type fakeFederated struct {
	claims *auth.FederatedClaims
	err    error
}

func (f *fakeFederated) Verify(context.Context, string, string) (*auth.FederatedClaims, error) {
	return f.claims, f.err
}

type recordingMailer struct {
	email, link string
	err         error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.email, m.link = email, link
	return m.err
}
