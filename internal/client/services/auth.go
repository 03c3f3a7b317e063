package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/client/remote"
	"github.com/harshal4412/ephemeral/internal/client/repositories/sessions"
	"github.com/harshal4412/ephemeral/internal/common"
	"github.com/harshal4412/ephemeral/internal/dbx"
	"github.com/harshal4412/ephemeral/internal/logging"
)

// nowFn is a test seam for time.Now.
var nowFn = time.Now

// SessionChange is one identity transition. Either side may be nil:
// nil→id is a login, id→nil a logout, id→id' an account switch.
type SessionChange struct {
	Previous *models.Identity
	Current  *models.Identity
}

// AuthService owns the current authenticated identity and its lifecycle.
//
// Contract:
//   - Restore: consult the locally persisted session before anything else;
//     never called concurrently with the mutating methods.
//   - SignUp: create an account; no identity transition.
//   - SignIn: establish a session; on failure the prior state is untouched.
//   - SignOut: end the session and wipe local session data.
//   - Subscribe: receive every subsequent transition; the returned func
//     unsubscribes.
type AuthService interface {
	Restore(ctx context.Context) error
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Current() *models.Identity
	Subscribe() (<-chan SessionChange, func())
	Close(ctx context.Context) error
}

// sessionRefresher is implemented by stores that can obtain a new token
// pair on their own mid-call; the service persists such pairs so a later
// Restore sees them.
type sessionRefresher interface {
	OnSessionRefresh(fn func(accessToken, refreshToken string))
}

type authService struct {
	store remote.Store
	db    *sql.DB
	log   logging.Logger

	mu      sync.Mutex
	current *models.Identity
	subs    map[int]chan SessionChange
	nextSub int
}

// NewAuthService constructs an AuthService backed by the remote store and a
// local DB holding the persisted session.
func NewAuthService(store remote.Store, db *sql.DB, log logging.Logger) AuthService {
	a := &authService{store: store, db: db, log: log, subs: make(map[int]chan SessionChange)}

	if r, ok := store.(sessionRefresher); ok {
		r.OnSessionRefresh(func(accessToken, refreshToken string) {
			ctx := context.Background()
			if err := a.persistTokens(ctx, accessToken, refreshToken); err != nil {
				a.log.Warn(ctx, "failed to persist refreshed session", "err", err)
			}
		})
	}
	return a
}

func (a *authService) sessionRepo() sessions.Repository {
	return sessions.NewSQLiteRepository(a.db)
}

// Restore loads the persisted session, decodes the identity from the stored
// access token, refreshes an expired session, and installs the result. A
// transient failure leaves the persisted session for a later retry; a
// rejected refresh wipes it. Restore must run before Subscribe-driven
// consumers expect a stable initial state.
func (a *authService) Restore(ctx context.Context) error {
	repo := a.sessionRepo()

	accessToken, err := repo.Get(ctx, sessions.KeyAccessToken)
	if err != nil {
		return err
	}
	refreshToken, err := repo.Get(ctx, sessions.KeyRefreshToken)
	if err != nil {
		return err
	}
	if accessToken == "" && refreshToken == "" {
		return nil
	}

	ident, expired, err := identityFromToken(accessToken)
	if err == nil && !expired {
		a.store.SetSession(accessToken, refreshToken)
		a.transition(&ident)
		return nil
	}

	if refreshToken == "" {
		// unusable leftover
		return repo.Clear(ctx)
	}

	sess, err := a.store.RefreshSession(ctx, refreshToken)
	if err != nil {
		if isTransient(err) {
			return fmt.Errorf("restore session: %w", err)
		}
		a.log.Warn(ctx, "persisted session rejected, clearing", "err", err)
		return repo.Clear(ctx)
	}

	if err := a.persistTokens(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
		return err
	}
	a.transition(&sess.User)
	return nil
}

// SignUp creates a new account. It does not establish a session; the user
// signs in afterwards.
func (a *authService) SignUp(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	return a.store.SignUp(ctx, email, password)
}

// SignIn establishes a session. On success the token pair is persisted and
// every subscriber is notified of the transition; on failure the prior
// identity (if any) stays in place.
func (a *authService) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	sess, err := a.store.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := a.persistTokens(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
		a.log.Warn(ctx, "failed to persist session", "err", err)
	}

	ident := sess.User
	a.transition(&ident)
	return &ident, nil
}

// SignOut ends the session. The remote revocation is best-effort: local
// teardown (persisted session wipe, nil identity, notification) happens
// regardless, so no entry data can outlive the session on this device.
func (a *authService) SignOut(ctx context.Context) error {
	if err := a.store.SignOut(ctx); err != nil {
		a.log.Warn(ctx, "remote sign-out failed", "err", err)
	}
	if err := a.sessionRepo().Clear(ctx); err != nil {
		return err
	}
	a.transition(nil)
	return nil
}

func (a *authService) Current() *models.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	ident := *a.current
	return &ident
}

// Subscribe registers for identity transitions. Every transition after the
// call is delivered on the returned channel, in order. The unsubscribe func
// stops delivery; the channel is not closed.
func (a *authService) Subscribe() (<-chan SessionChange, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan SessionChange, 16)
	a.subs[id] = ch

	return ch, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

func (a *authService) Close(ctx context.Context) error {
	return a.store.Close()
}

func (a *authService) transition(next *models.Identity) {
	a.mu.Lock()
	prev := a.current
	a.current = next
	targets := make([]chan SessionChange, 0, len(a.subs))
	for _, ch := range a.subs {
		targets = append(targets, ch)
	}
	a.mu.Unlock()

	change := SessionChange{Previous: prev, Current: next}
	for _, ch := range targets {
		ch <- change
	}
}

func (a *authService) persistTokens(ctx context.Context, accessToken, refreshToken string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := sessions.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, sessions.KeyAccessToken, accessToken); err != nil {
			return err
		}
		return repo.Set(ctx, sessions.KeyRefreshToken, refreshToken)
	})
}

// identityFromToken decodes the identity claims (sub, email) and expiry
// from an access token. The signature is not verified here; the remote
// store is the verifier and rejects forged tokens on first use.
func identityFromToken(token string) (models.Identity, bool, error) {
	if token == "" {
		return models.Identity{}, false, common.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.Identity{}, false, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return models.Identity{}, false, common.ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	expired := false
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expired = exp.Before(nowFn())
	}

	return models.Identity{ID: sub, Email: email}, expired, nil
}
