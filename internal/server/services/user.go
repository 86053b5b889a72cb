// Package services contains server-side business logic. UserService covers
// account creation, password and federated sign-in, token refresh and
// password reset.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/cryptox"
	"github.com/dmitrijs2005/ele/internal/dbx"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/auth"
	"github.com/dmitrijs2005/ele/internal/server/config"
	"github.com/dmitrijs2005/ele/internal/server/models"
	"github.com/dmitrijs2005/ele/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ele/internal/validation"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
// issued to UserID.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// FederatedVerifier checks a provider ID token and returns its claims.
type FederatedVerifier interface {
	Verify(ctx context.Context, provider, raw string) (*auth.FederatedClaims, error)
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	federated                    FederatedVerifier
	mailer                       Mailer
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	resetLinkBaseURL             string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	federated FederatedVerifier, mailer Mailer, l logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		federated:                    federated,
		mailer:                       mailer,
		logger:                       l.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		resetLinkBaseURL:             cfg.ResetLinkBaseURL,
	}
}

// CreateUser registers an email/password account and signs it in.
func (s *UserService) CreateUser(ctx context.Context, email, password string) (*TokenPair, error) {
	if err := validation.ValidateLogin(email, password).Err(); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, strings.TrimSpace(email), hash)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "uid", user.ID)
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// SignInWithPassword returns ErrorUnauthorized for unknown emails, accounts
// without a password and wrong passwords alike.
func (s *UserService) SignInWithPassword(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if user.PasswordHash == "" {
		return nil, common.ErrorUnauthorized
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.logger.Error(ctx, "stored password hash unreadable", "uid", user.ID, "error", err)
		}
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// SignInWithFederatedToken verifies a provider ID token and signs in the
// linked user, creating and linking one on first use.
//
// Two concurrent first sign-ins for one subject may both try to link; the
// loser gets ErrorAlreadyExists from the identity insert and its transaction
// rolls back.
func (s *UserService) SignInWithFederatedToken(ctx context.Context, provider, idToken string) (*TokenPair, error) {
	claims, err := s.federated.Verify(ctx, provider, idToken)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedProvider) {
			return nil, err
		}
		s.logger.Warn(ctx, "federated token rejected", "provider", provider, "error", err)
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.repomanager.Identities(tx).Find(ctx, provider, claims.Subject)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrorNotFound):
			userID, err = s.linkNewUser(ctx, tx, provider, claims)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("error searching identity: %w", err)
		}

		pair, err = s.generateTokenPair(ctx, userID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// linkNewUser attaches the identity to the account owning the token's
// verified email if there is one, otherwise to a fresh password-less account.
func (s *UserService) linkNewUser(ctx context.Context, tx dbx.DBTX, provider string, claims *auth.FederatedClaims) (string, error) {
	users := s.repomanager.Users(tx)

	var userID string
	if claims.Email != "" && claims.IsEmailVerified() {
		u, err := users.GetByEmail(ctx, claims.Email)
		switch {
		case err == nil:
			userID = u.ID
		case !errors.Is(err, common.ErrorNotFound):
			return "", fmt.Errorf("error searching user: %w", err)
		}
	}

	if userID == "" {
		email := claims.Email
		if email == "" {
			email = provider + ":" + claims.Subject
		}
		u, err := users.Create(ctx, email, "")
		if err != nil {
			return "", fmt.Errorf("error creating user: %w", err)
		}
		userID = u.ID
		s.logger.Info(ctx, "user created", "uid", userID, "provider", provider)
	}

	identity := models.Identity{Provider: provider, Subject: claims.Subject, UserID: userID}
	if err := s.repomanager.Identities(tx).Link(ctx, identity); err != nil {
		return "", fmt.Errorf("error linking identity: %w", err)
	}
	return userID, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired;
// tokens whose account is gone are Unauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "refresh token of a missing user", "user_id", token.UserID)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// SendPasswordReset mails a reset link when the email belongs to an account.
// The caller cannot tell the two cases apart.
func (s *UserService) SendPasswordReset(ctx context.Context, email string) error {
	if err := validation.ValidateEmail(email).Err(); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	token := uuid.NewString()
	if err := s.repomanager.PasswordResets(s.db).Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLinkBaseURL+token); err != nil {
		return fmt.Errorf("error sending reset link: %w", err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password and consumes every outstanding
// reset token of the user.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword).Err(); err != nil {
		return err
	}

	reset, err := s.repomanager.PasswordResets(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error searching reset token: %w", err)
	}
	if reset.Expires.Before(time.Now()) {
		return common.ErrResetTokenExpired
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, reset.UserID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.PasswordResets(tx).DeleteForUser(ctx, reset.UserID); err != nil {
			return fmt.Errorf("error deleting reset tokens: %w", err)
		}
		return nil
	})
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}
