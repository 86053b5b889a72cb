package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ele/internal/client/biometric"
	"github.com/dmitrijs2005/ele/internal/client/credentials"
	"github.com/dmitrijs2005/ele/internal/client/identity"
	"github.com/dmitrijs2005/ele/internal/client/models"
)

var errBoom = errors.New("boom")

type fakeClient struct {
	pingErr    error
	closed     bool
	createUID  string
	createErr  error
	created    [2]string
	resetEmail string
	resetErr   error
	confirmed  [2]string
	signedOut  bool
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }
func (f *fakeClient) Close() error { f.closed = true; return nil }
func (f *fakeClient) CreateUser(_ context.Context, email, password string) (string, error) {
	f.created = [2]string{email, password}
	return f.createUID, f.createErr
}
func (f *fakeClient) SendPasswordReset(_ context.Context, email string) error {
	f.resetEmail = email
	return f.resetErr
}
func (f *fakeClient) ConfirmPasswordReset(_ context.Context, token, pw string) error {
	f.confirmed = [2]string{token, pw}
	return f.resetErr
}
func (f *fakeClient) SignOut() { f.signedOut = true }

type fakeBridge struct {
	creds []identity.Credential
	uid   string
	err   error
}

func (f *fakeBridge) SignIn(_ context.Context, cred identity.Credential) (models.UserIdentity, error) {
	f.creds = append(f.creds, cred)
	if f.err != nil {
		return models.UserIdentity{}, f.err
	}
	ident, err := identity.Normalize(f.uid, cred)
	if err != nil {
		return models.UserIdentity{}, err
	}
	return ident, nil
}

type fakeCache struct {
	entries  map[credentials.Tag]string
	saveErr  error
	clearErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[credentials.Tag]string{}}
}

func (f *fakeCache) Save(_ context.Context, tag credentials.Tag, secret string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[tag] = secret
	return nil
}

func (f *fakeCache) Load(_ context.Context, tag credentials.Tag) (string, bool) {
	v, ok := f.entries[tag]
	return v, ok
}

func (f *fakeCache) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.entries = map[credentials.Tag]string{}
	return nil
}

type fakePrompt struct {
	res biometric.Result
	err error
}

func (f fakePrompt) Evaluate(context.Context, string) (biometric.Result, error) {
	return f.res, f.err
}

type fakeProfiles struct {
	saved   map[string]*models.UserProfile
	saveErr error
	loadErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{saved: map[string]*models.UserProfile{}}
}

func (f *fakeProfiles) Save(_ context.Context, uid string, p *models.UserProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *p
	cp.ImagePending = false
	f.saved[uid] = &cp
	p.ImagePending = false
	return nil
}

func (f *fakeProfiles) Load(_ context.Context, ident models.UserIdentity) (*models.UserProfile, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if p, ok := f.saved[ident.UID]; ok {
		cp := *p
		return &cp, nil
	}
	return &models.UserProfile{Email: ident.Email}, nil
}
