package remote

import "errors"

var (
	// ErrUnavailable marks transient transport failures (network, timeout,
	// 5xx). Callers may retry; local state must be left as-is.
	ErrUnavailable = errors.New("remote store unavailable")

	// ErrUnauthorized is returned when the session is missing, expired
	// beyond refresh, or rejected by the remote store.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by SignIn for a bad email/password
	// pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateAccount is returned by SignUp when the email is taken.
	ErrDuplicateAccount = errors.New("account already exists")
)
