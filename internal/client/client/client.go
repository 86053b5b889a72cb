// Package client talks to the account server over gRPC. It keeps the
// session (user id and tokens) in memory, attaches the access token to every
// call, refreshes it transparently once it expires, and maps gRPC statuses
// to the sentinel errors in internal/common.
package client

import (
	"context"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	SignInWithFederatedToken(ctx context.Context, provider, idToken string) (string, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	CurrentUserID() string
	SignOut()

	GetDocument(ctx context.Context, collection, id string) (map[string]any, bool, error)
	SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error

	PutObject(ctx context.Context, path string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, path string) (string, error)
}
