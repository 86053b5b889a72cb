package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ele/internal/common"
)

type testProvider struct {
	key     *rsa.PrivateKey
	mu      sync.Mutex
	kid     string
	fetches atomic.Int32
	srv     *httptest.Server
}

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &testProvider{key: key, kid: "k1"}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.fetches.Add(1)
		p.mu.Lock()
		kid := p.kid
		p.mu.Unlock()
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JWK{NewRSAJWK(kid, &p.key.PublicKey)}})
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *testProvider) sign(t *testing.T, kid string, c FederatedClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(p.key)
	require.NoError(t, err)
	return s
}

func googleClaims(aud string, exp time.Time) FederatedClaims {
	return FederatedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "google-sub-1",
			Audience:  jwt.ClaimStrings{aud},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:         "ana@example.com",
		EmailVerified: true,
		GivenName:     "Ana",
		FamilyName:    "López",
		Picture:       "https://example.com/a.jpg",
	}
}

func TestProviderVerifier_Valid(t *testing.T) {
	p := newTestProvider(t)
	v := NewProviderVerifier(NewRemoteKeySet(p.srv.URL, p.srv.Client(), time.Hour), GoogleIssuers, "client-1")

	raw := p.sign(t, "k1", googleClaims("client-1", time.Now().Add(time.Hour)))

	c, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", c.Subject)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "Ana", c.GivenName)
	assert.Equal(t, "https://example.com/a.jpg", c.Picture)

	_, err = v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.fetches.Load(), "keys are cached")
}

func TestProviderVerifier_Rejects(t *testing.T) {
	p := newTestProvider(t)
	v := NewProviderVerifier(NewRemoteKeySet(p.srv.URL, p.srv.Client(), time.Hour), GoogleIssuers, "client-1")
	ctx := context.Background()

	_, err := v.Verify(ctx, p.sign(t, "k1", googleClaims("other", time.Now().Add(time.Hour))))
	assert.ErrorIs(t, err, common.ErrInvalidToken, "audience")

	_, err = v.Verify(ctx, p.sign(t, "k1", googleClaims("client-1", time.Now().Add(-time.Hour))))
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	c := googleClaims("client-1", time.Now().Add(time.Hour))
	c.Issuer = "https://evil.example"
	_, err = v.Verify(ctx, p.sign(t, "k1", c))
	assert.ErrorIs(t, err, common.ErrInvalidToken, "issuer")

	c = googleClaims("client-1", time.Now().Add(time.Hour))
	c.Subject = ""
	_, err = v.Verify(ctx, p.sign(t, "k1", c))
	assert.ErrorIs(t, err, common.ErrInvalidToken, "subject")

	_, err = v.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestProviderVerifier_UnknownKidRefetchIsThrottled(t *testing.T) {
	p := newTestProvider(t)
	ks := NewRemoteKeySet(p.srv.URL, p.srv.Client(), time.Hour)
	v := NewProviderVerifier(ks, GoogleIssuers, "client-1")
	rotated := p.sign(t, "rotated", googleClaims("client-1", time.Now().Add(time.Hour)))

	for i := 0; i < 3; i++ {
		_, err := v.Verify(context.Background(), rotated)
		require.Error(t, err)
	}
	assert.Equal(t, int32(1), p.fetches.Load())

	ks.mu.Lock()
	ks.fetched = time.Now().Add(-2 * MinRefetchInterval)
	ks.mu.Unlock()
	p.mu.Lock()
	p.kid = "rotated"
	p.mu.Unlock()

	_, err := v.Verify(context.Background(), rotated)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.fetches.Load())
}

func TestProviderVerifier_WrongSigningKey(t *testing.T) {
	p := newTestProvider(t)
	v := NewProviderVerifier(NewRemoteKeySet(p.srv.URL, p.srv.Client(), time.Hour), GoogleIssuers, "client-1")

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, googleClaims("client-1", time.Now().Add(time.Hour)))
	tok.Header["kid"] = "k1"
	raw, err := tok.SignedString(other)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRemoteKeySet_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRemoteKeySet(srv.URL, srv.Client(), time.Hour).Get(context.Background(), "k1")
	require.Error(t, err)
}

func TestFederated_Dispatch(t *testing.T) {
	p := newTestProvider(t)

	f := NewFederated("", "", nil)
	_, err := f.Verify(context.Background(), common.ProviderGoogle, "x")
	assert.True(t, errors.Is(err, common.ErrUnsupportedProvider))

	f.Register(common.ProviderGoogle, NewProviderVerifier(NewRemoteKeySet(p.srv.URL, p.srv.Client(), time.Hour), GoogleIssuers, "client-1"))
	c, err := f.Verify(context.Background(), common.ProviderGoogle, p.sign(t, "k1", googleClaims("client-1", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", c.Subject)
}

func TestFederatedClaims_IsEmailVerified(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{nil, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, (&FederatedClaims{EmailVerified: c.in}).IsEmailVerified(), "%v", c.in)
	}
}
