// Package identity signs a user in with one of the supported credential
// kinds and turns the result into a models.UserIdentity.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
)

var ErrMissingToken = errors.New("provider token is missing")

// Credential is one of Password, Google or Apple.
type Credential interface {
	Provider() string
}

type Password struct {
	Email    string
	Password string
}

// Google carries the result of the Google sign-in flow.
type Google struct {
	IDToken     string
	AccessToken string
}

// Apple carries the authorization response. Apple sends the name and
// email only on the first authorization, so they may be empty.
type Apple struct {
	IdentityToken string
	GivenName     string
	FamilyName    string
	Email         string
}

func (Password) Provider() string { return common.ProviderPassword }
func (Google) Provider() string   { return common.ProviderGoogle }
func (Apple) Provider() string    { return common.ProviderApple }

type providerClaims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	jwt.RegisteredClaims
}

// readClaims decodes the token payload without checking the signature;
// the server verifies the token during the exchange.
func readClaims(token string) (*providerClaims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	c := &providerClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("malformed provider token: %w", err)
	}
	return c, nil
}

// SplitName splits a display name into the first word and the rest.
func SplitName(display string) (string, string) {
	parts := strings.Fields(display)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Normalize builds the identity for uid from cred.
func Normalize(uid string, cred Credential) (models.UserIdentity, error) {
	ident := models.UserIdentity{UID: uid, Provider: cred.Provider()}

	switch c := cred.(type) {
	case Password:
		ident.Email = c.Email

	case Google:
		claims, err := readClaims(c.IDToken)
		if err != nil {
			return models.UserIdentity{}, err
		}
		ident.Email = claims.Email
		ident.FirstName, ident.LastName = claims.GivenName, claims.FamilyName
		if ident.FirstName == "" && ident.LastName == "" {
			ident.FirstName, ident.LastName = SplitName(claims.Name)
		}
		ident.AvatarURL = claims.Picture

	case Apple:
		claims, err := readClaims(c.IdentityToken)
		if err != nil {
			return models.UserIdentity{}, err
		}
		ident.Email = c.Email
		if ident.Email == "" {
			ident.Email = claims.Email
		}
		ident.FirstName, ident.LastName = c.GivenName, c.FamilyName

	default:
		return models.UserIdentity{}, common.ErrUnsupportedProvider
	}

	return ident, nil
}

func federatedToken(cred Credential) string {
	switch c := cred.(type) {
	case Google:
		return c.IDToken
	case Apple:
		return c.IdentityToken
	}
	return ""
}
