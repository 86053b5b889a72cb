// Package credentials caches the last successful email and password so a
// biometric login can replay them. Entries live in the local keychain under
// one service name, one account per tag.
package credentials

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ele/internal/client/keychain"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
)

// Tag names a cached secret.
type Tag string

const (
	TagEmail    Tag = "email"
	TagPassword Tag = "password"
)

// Service is the keychain service all entries are stored under.
const Service = "ele.credentials"

type Store struct {
	keychain keychain.Store
	logger   logging.Logger
}

func NewStore(k keychain.Store, l logging.Logger) *Store {
	return &Store{keychain: k, logger: l.With("module", "credentials")}
}

// Save overwrites the entry for tag.
func (s *Store) Save(ctx context.Context, tag Tag, secret string) error {
	return s.keychain.Set(ctx, Service, string(tag), []byte(secret))
}

// Load reports ("", false) when nothing usable is stored. Read failures are
// logged, never returned.
func (s *Store) Load(ctx context.Context, tag Tag) (string, bool) {
	v, err := s.LoadErr(ctx, tag)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "credential unreadable", "tag", string(tag), "error", err)
		}
		return "", false
	}
	return v, true
}

// LoadErr is Load with the underlying error; absent entries yield
// common.ErrorNotFound.
func (s *Store) LoadErr(ctx context.Context, tag Tag) (string, error) {
	v, err := s.keychain.Get(ctx, Service, string(tag))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Clear removes every tag. It stops at the first failure.
func (s *Store) Clear(ctx context.Context) error {
	for _, tag := range []Tag{TagEmail, TagPassword} {
		if err := s.keychain.Delete(ctx, Service, string(tag)); err != nil {
			return err
		}
	}
	return nil
}
