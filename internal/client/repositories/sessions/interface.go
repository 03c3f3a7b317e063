// Package sessions persists the authenticated session between runs, the
// way a browser client keeps it in local storage. Only token material is
// stored; identity claims are decoded from the access token on restore.
package sessions

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)
