// Package models defines client-side data models for the Ephemeral journal.
package models

// Identity is the authenticated user reference that scopes all entry data.
// A nil *Identity means "not authenticated".
type Identity struct {
	// ID is the opaque user id assigned by the remote store.
	ID string

	// Email is the address the account was registered with.
	Email string
}
