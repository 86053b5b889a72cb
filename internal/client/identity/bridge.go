package identity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
)

// Authenticator exchanges credentials with the authentication service.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	SignInWithFederatedToken(ctx context.Context, provider, idToken string) (string, error)
	SignOut()
}

// Profiles is the part of the profile repository used on first sign-in.
type Profiles interface {
	Exists(ctx context.Context, uid string) (bool, error)
	Seed(ctx context.Context, ident models.UserIdentity) (*models.UserProfile, error)
}

type Bridge struct {
	auth     Authenticator
	profiles Profiles
	logger   logging.Logger
}

func NewBridge(auth Authenticator, profiles Profiles, l logging.Logger) *Bridge {
	return &Bridge{auth: auth, profiles: profiles, logger: l.With("module", "identity")}
}

// SignIn authenticates cred and returns the signed-in identity. A federated
// user signing in for the first time gets a profile seeded from the
// provider. On any failure the session is dropped and no identity is
// returned.
func (b *Bridge) SignIn(ctx context.Context, cred Credential) (models.UserIdentity, error) {
	ident, err := Normalize("", cred)
	if err != nil {
		return models.UserIdentity{}, err
	}

	var uid string
	if p, ok := cred.(Password); ok {
		uid, err = b.auth.SignInWithPassword(ctx, p.Email, p.Password)
	} else {
		uid, err = b.auth.SignInWithFederatedToken(ctx, cred.Provider(), federatedToken(cred))
	}
	if err != nil {
		b.logger.Warn(ctx, "sign in rejected", "provider", cred.Provider(), "error", err)
		return models.UserIdentity{}, fmt.Errorf("sign in failed: %w", err)
	}
	ident.UID = uid

	if ident.Provider == common.ProviderPassword {
		return ident, nil
	}

	exists, err := b.profiles.Exists(ctx, uid)
	if err != nil {
		b.auth.SignOut()
		return models.UserIdentity{}, fmt.Errorf("profile lookup failed: %w", err)
	}
	if exists {
		return ident, nil
	}

	b.logger.Info(ctx, "first sign in, seeding profile", "uid", uid, "provider", ident.Provider)
	if _, err := b.profiles.Seed(ctx, ident); err != nil {
		b.auth.SignOut()
		return models.UserIdentity{}, fmt.Errorf("profile setup failed: %w", err)
	}
	return ident, nil
}
