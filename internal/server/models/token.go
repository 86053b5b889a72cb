package models

import "time"

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// PasswordReset is a single-use reset token.
type PasswordReset struct {
	Token   string
	UserID  string
	Expires time.Time
}
