package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/harshal4412/ephemeral/internal/client/models"
	"github.com/harshal4412/ephemeral/internal/client/remote"
	"github.com/harshal4412/ephemeral/internal/logging"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
DELETE FROM sessions;`)
	require.NoError(t, err)
	return db
}

// mintToken produces an unsigned-verification-friendly JWT with the claims
// the session restore path reads.
func mintToken(t *testing.T, sub, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// fakeStore is an in-memory remote.Store covering both the auth
// collaborator and the entries table.
type fakeStore struct {
	mu   sync.Mutex
	recs map[string]remote.Record // key: owner + "|" + date

	// auth presets
	signInSession *remote.Session
	signInErr     error
	signUpErr     error
	refreshSess   *remote.Session
	refreshErr    error

	// injected failures for entry ops
	selectErr error
	upsertErr error
	deleteErr error

	// observation
	selectCalls int
	upsertCalls int
	deleteCalls int
	signOutted  bool
	setAccess   string
	setRefresh  string

	// selectHook runs inside SelectEntries while the fetch is "in flight".
	selectHook func()
	// selectLeakAll skips the owner filter, emulating a misbehaving remote.
	selectLeakAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: make(map[string]remote.Record)}
}

func (f *fakeStore) key(owner, date string) string { return owner + "|" + date }

func (f *fakeStore) seed(owner, date, mood, note string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[f.key(owner, date)] = remote.Record{
		ID: uuid.NewString(), OwnerID: owner, Date: date, Mood: mood, Note: note,
	}
}

func (f *fakeStore) SignUp(ctx context.Context, email, password string) error { return f.signUpErr }

func (f *fakeStore) SignIn(ctx context.Context, email, password string) (*remote.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSession, nil
}

func (f *fakeStore) RefreshSession(ctx context.Context, refreshToken string) (*remote.Session, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshSess, nil
}

func (f *fakeStore) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutted = true
	return nil
}

func (f *fakeStore) SetSession(accessToken, refreshToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setAccess, f.setRefresh = accessToken, refreshToken
}

func (f *fakeStore) SelectEntries(ctx context.Context, ownerID string) ([]remote.Record, error) {
	f.mu.Lock()
	f.selectCalls++
	hook := f.selectHook
	var out []remote.Record
	for _, r := range f.recs {
		if f.selectLeakAll || r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	err := f.selectErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeStore) UpsertEntry(ctx context.Context, rec remote.Record) (remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return remote.Record{}, f.upsertErr
	}

	k := f.key(rec.OwnerID, rec.Date)
	if existing, ok := f.recs[k]; ok {
		rec.ID = existing.ID
	} else {
		rec.ID = uuid.NewString()
	}
	f.recs[k] = rec
	return rec, nil
}

func (f *fakeStore) DeleteEntry(ctx context.Context, ownerID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.recs, f.key(ownerID, date))
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) count(owner string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.recs {
		if r.OwnerID == owner {
			n++
		}
	}
	return n
}

var u1 = models.Identity{ID: "u1", Email: "u1@example.org"}
var u2 = models.Identity{ID: "u2", Email: "u2@example.org"}
