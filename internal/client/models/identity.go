// Package models defines the client-side identity and profile types.
package models

// UserIdentity is produced once per successful sign-in and never changes.
// Provider is one of the common.Provider* names.
type UserIdentity struct {
	UID       string
	Provider  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}
