package remote

import (
	"context"

	"github.com/harshal4412/ephemeral/internal/client/models"
)

// Session is an established authenticated session with the remote store.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         models.Identity
}

// Store is the fixed contract of the remote authoritative store and its auth
// collaborator. The Ephemeral client never talks to the backend except
// through this interface.
type Store interface {
	// SignUp creates a new account. ErrDuplicateAccount when the email is
	// already registered.
	SignUp(ctx context.Context, email, password string) error

	// SignIn establishes a session from credentials. ErrInvalidCredentials
	// on a bad pair; the implementation keeps the returned tokens for
	// subsequent entry operations.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// RefreshSession exchanges a refresh token for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)

	// SignOut revokes the current session server-side.
	SignOut(ctx context.Context) error

	// SetSession installs previously persisted tokens (session restore).
	SetSession(accessToken, refreshToken string)

	// SelectEntries returns every record owned by ownerID, oldest first.
	SelectEntries(ctx context.Context, ownerID string) ([]Record, error)

	// UpsertEntry inserts or fully replaces the record keyed by
	// (owner, date) and returns the stored representation.
	UpsertEntry(ctx context.Context, rec Record) (Record, error)

	// DeleteEntry removes the record matching (ownerID, date). Deleting an
	// absent record is not an error.
	DeleteEntry(ctx context.Context, ownerID, date string) error

	Close() error
}
