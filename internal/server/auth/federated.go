package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/ele/internal/common"
)

// Well-known provider endpoints.
const (
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	AppleJWKSURL  = "https://appleid.apple.com/auth/keys"
)

var (
	GoogleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}
	AppleIssuers  = []string{"https://appleid.apple.com"}
)

// FederatedClaims are the ID token claims used to find or create a user.
// Apple sends email_verified as a string, hence the any.
type FederatedClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// IsEmailVerified reads email_verified as either a bool or "true".
func (c *FederatedClaims) IsEmailVerified() bool {
	switch v := c.EmailVerified.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// KeySource resolves a signing key by kid.
type KeySource interface {
	Get(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// ProviderVerifier checks RS256 ID tokens for one provider.
type ProviderVerifier struct {
	keys     KeySource
	issuers  []string
	audience string
}

func NewProviderVerifier(keys KeySource, issuers []string, audience string) *ProviderVerifier {
	return &ProviderVerifier{keys: keys, issuers: issuers, audience: audience}
}

// Verify checks signature, issuer, audience and expiry of raw.
func (v *ProviderVerifier) Verify(ctx context.Context, raw string) (*FederatedClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)

	claims := &FederatedClaims{}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		return v.keys.Get(ctx, kid)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !slices.Contains(v.issuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", common.ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return claims, nil
}

// Federated dispatches ID token verification by provider name.
type Federated struct {
	providers map[string]*ProviderVerifier
}

// NewFederated wires Google and Apple verifiers for the given client IDs.
// A provider with an empty client ID is left out.
func NewFederated(googleClientID, appleClientID string, client *http.Client) *Federated {
	f := &Federated{providers: map[string]*ProviderVerifier{}}
	if googleClientID != "" {
		f.Register(common.ProviderGoogle, NewProviderVerifier(NewRemoteKeySet(GoogleJWKSURL, client, time.Hour), GoogleIssuers, googleClientID))
	}
	if appleClientID != "" {
		f.Register(common.ProviderApple, NewProviderVerifier(NewRemoteKeySet(AppleJWKSURL, client, time.Hour), AppleIssuers, appleClientID))
	}
	return f
}

func (f *Federated) Register(provider string, v *ProviderVerifier) {
	f.providers[provider] = v
}

// Verify returns common.ErrUnsupportedProvider for providers not configured.
func (f *Federated) Verify(ctx context.Context, provider, raw string) (*FederatedClaims, error) {
	v, ok := f.providers[provider]
	if !ok {
		return nil, common.ErrUnsupportedProvider
	}
	return v.Verify(ctx, raw)
}
