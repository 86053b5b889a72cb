// Package services holds the form flows behind the client commands: they
// gate input through validation and then drive the identity bridge, the
// profile repository and the credential cache.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ele/internal/client/biometric"
	"github.com/dmitrijs2005/ele/internal/client/credentials"
	"github.com/dmitrijs2005/ele/internal/client/identity"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/validation"
)

var (
	ErrBiometricDenied      = errors.New("biometric authentication denied")
	ErrBiometricUnavailable = errors.New("biometric authentication unavailable")
	ErrNoSavedCredentials   = errors.New("no saved credentials, sign in with a password first")
)

// AuthService defines the sign-in, sign-up and password reset flows.
//
// Every call that returns an identity leaves the client signed in as that
// identity; on error the session is unchanged or dropped.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.UserIdentity, error)
	BiometricLogin(ctx context.Context) (models.UserIdentity, error)
	FederatedLogin(ctx context.Context, cred identity.Credential) (models.UserIdentity, error)
	Register(ctx context.Context, form validation.Registration) (models.UserIdentity, error)
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context) error
	Forget(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// AccountClient is the part of the remote client the auth flows use
// directly; sign-in goes through the identity bridge.
type AccountClient interface {
	Ping(ctx context.Context) error
	Close() error
	CreateUser(ctx context.Context, email, password string) (string, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	SignOut()
}

type SignInBridge interface {
	SignIn(ctx context.Context, cred identity.Credential) (models.UserIdentity, error)
}

// CredentialCache is satisfied by *credentials.Store.
type CredentialCache interface {
	Save(ctx context.Context, tag credentials.Tag, secret string) error
	Load(ctx context.Context, tag credentials.Tag) (string, bool)
	Clear(ctx context.Context) error
}

// ProfileWriter is the profile repository's save path.
type ProfileWriter interface {
	Save(ctx context.Context, uid string, p *models.UserProfile) error
}

type authService struct {
	client   AccountClient
	bridge   SignInBridge
	cache    CredentialCache
	prompt   biometric.Prompt
	profiles ProfileWriter
	logger   logging.Logger
	now      func() time.Time
}

func NewAuthService(c AccountClient, b SignInBridge, cache CredentialCache, p biometric.Prompt, profiles ProfileWriter, l logging.Logger) AuthService {
	return &authService{
		client:   c,
		bridge:   b,
		cache:    cache,
		prompt:   p,
		profiles: profiles,
		logger:   l.With("module", "auth"),
		now:      time.Now,
	}
}

// Login signs in with email and password and caches both for biometric
// re-login. Cache failures are logged and do not fail the login.
func (a *authService) Login(ctx context.Context, email, password string) (models.UserIdentity, error) {
	if err := validation.ValidateLogin(email, password).Err(); err != nil {
		return models.UserIdentity{}, err
	}

	ident, err := a.bridge.SignIn(ctx, identity.Password{Email: email, Password: password})
	if err != nil {
		return models.UserIdentity{}, err
	}

	if err := a.cache.Save(ctx, credentials.TagEmail, email); err != nil {
		a.logger.Warn(ctx, "caching email failed", "error", err)
	}
	if err := a.cache.Save(ctx, credentials.TagPassword, password); err != nil {
		a.logger.Warn(ctx, "caching password failed", "error", err)
	}

	return ident, nil
}

func (a *authService) BiometricLogin(ctx context.Context) (models.UserIdentity, error) {
	res, err := a.prompt.Evaluate(ctx, "Sign in to ele")
	if err != nil {
		a.logger.Warn(ctx, "biometric prompt failed", "error", err)
	}

	switch res {
	case biometric.Granted:
	case biometric.Denied:
		return models.UserIdentity{}, ErrBiometricDenied
	default:
		return models.UserIdentity{}, ErrBiometricUnavailable
	}

	email, ok := a.cache.Load(ctx, credentials.TagEmail)
	if !ok {
		return models.UserIdentity{}, ErrNoSavedCredentials
	}
	password, ok := a.cache.Load(ctx, credentials.TagPassword)
	if !ok {
		return models.UserIdentity{}, ErrNoSavedCredentials
	}

	return a.Login(ctx, email, password)
}

func (a *authService) FederatedLogin(ctx context.Context, cred identity.Credential) (models.UserIdentity, error) {
	if _, ok := cred.(identity.Password); ok {
		return models.UserIdentity{}, fmt.Errorf("%w: password credential", common.ErrUnsupportedProvider)
	}
	return a.bridge.SignIn(ctx, cred)
}

// Register creates the account and writes its first profile document. The
// account stays created if the profile write fails; the error says so.
func (a *authService) Register(ctx context.Context, form validation.Registration) (models.UserIdentity, error) {
	if err := validation.ValidateRegistration(form, a.now()).Err(); err != nil {
		return models.UserIdentity{}, err
	}

	gender, _ := models.ParseGender(form.Gender)

	uid, err := a.client.CreateUser(ctx, form.Email, form.Password)
	if err != nil {
		return models.UserIdentity{}, err
	}

	p := &models.UserProfile{
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		BirthDate: form.BirthDate,
		Gender:    gender,
	}
	if err := a.profiles.Save(ctx, uid, p); err != nil {
		a.logger.Error(ctx, "writing profile after sign up failed", "uid", uid, "error", err)
		return models.UserIdentity{}, fmt.Errorf("account created but profile was not saved: %w", err)
	}

	return models.UserIdentity{
		UID:       uid,
		Provider:  common.ProviderPassword,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}, nil
}

func (a *authService) ResetPassword(ctx context.Context, email string) error {
	if err := validation.ValidateEmail(email).Err(); err != nil {
		return err
	}
	return a.client.SendPasswordReset(ctx, email)
}

func (a *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword).Err(); err != nil {
		return err
	}
	return a.client.ConfirmPasswordReset(ctx, token, newPassword)
}

// Logout ends the session. Cached credentials are kept for biometric login.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SignOut()
	return nil
}

// Forget ends the session and drops the cached credentials, which turns
// biometric login off until the next password sign-in.
func (a *authService) Forget(ctx context.Context) error {
	a.client.SignOut()
	if err := a.cache.Clear(ctx); err != nil {
		a.logger.Error(ctx, "clearing saved credentials failed", "error", err)
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
