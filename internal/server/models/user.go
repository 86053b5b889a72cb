// Package models defines server-side rows persisted in PostgreSQL.
package models

import "time"

// User is an account. PasswordHash is empty for accounts created through a
// federated provider only.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity links an external provider subject to a local user.
type Identity struct {
	Provider string
	Subject  string
	UserID   string
}
