package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HTTPStore talks to a Supabase-style backend: a GoTrue auth endpoint under
// /auth/v1 and a PostgREST entries table under /rest/v1/entries. It keeps
// the current access/refresh token pair, transparently refreshes an expired
// session once per call, and maps transport/status failures to the package
// sentinel errors.
type HTTPStore struct {
	baseURL string
	apiKey  string
	hc      *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(accessToken, refreshToken string)
}

// NewHTTPStore builds an HTTPStore for the given base URL and API key.
// timeout bounds every individual request; the remote collaborator's own
// deadline semantics apply beyond that.
func NewHTTPStore(baseURL, apiKey string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

// OnSessionRefresh registers a callback invoked whenever the store obtains a
// new token pair on its own (mid-call refresh), so the caller can persist it.
func (s *HTTPStore) OnSessionRefresh(fn func(accessToken, refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

func (s *HTTPStore) SetSession(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

func (s *HTTPStore) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *HTTPStore) setTokensAndNotify(accessToken, refreshToken string) {
	s.mu.Lock()
	fn := s.onRefresh
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.mu.Unlock()
	if fn != nil {
		fn(accessToken, refreshToken)
	}
}

// statusError carries a non-2xx status that has no dedicated sentinel.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote store: status %d: %s", e.code, e.body)
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r sessionResponse) session() *Session {
	sess := &Session{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	sess.User.ID = r.User.ID
	sess.User.Email = r.User.Email
	return sess
}

func (s *HTTPStore) SignUp(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	err := s.do(ctx, http.MethodPost, s.baseURL+"/auth/v1/signup", nil, body, nil, false)

	// GoTrue reports an already-registered email as 409 or 422; other 4xx
	// (weak password, malformed email) keep their own message.
	var se *statusError
	if errors.As(err, &se) && (se.code == http.StatusConflict || se.code == http.StatusUnprocessableEntity) {
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, email)
	}
	return err
}

func (s *HTTPStore) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp sessionResponse
	err := s.do(ctx, http.MethodPost, s.baseURL+"/auth/v1/token?grant_type=password", nil, body, &resp, false)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.code == http.StatusBadRequest || se.code == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	s.SetSession(resp.AccessToken, resp.RefreshToken)
	return resp.session(), nil
}

func (s *HTTPStore) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp sessionResponse
	err := s.do(ctx, http.MethodPost, s.baseURL+"/auth/v1/token?grant_type=refresh_token", nil, body, &resp, false)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: refresh rejected", ErrUnauthorized)
		}
		return nil, err
	}

	s.setTokensAndNotify(resp.AccessToken, resp.RefreshToken)
	return resp.session(), nil
}

func (s *HTTPStore) SignOut(ctx context.Context) error {
	defer s.SetSession("", "")
	return s.do(ctx, http.MethodPost, s.baseURL+"/auth/v1/logout", nil, nil, nil, true)
}

func (s *HTTPStore) SelectEntries(ctx context.Context, ownerID string) ([]Record, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+ownerID)
	q.Set("order", "date.asc")

	var recs []Record
	if err := s.do(ctx, http.MethodGet, s.entriesURL(q), nil, nil, &recs, true); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *HTTPStore) UpsertEntry(ctx context.Context, rec Record) (Record, error) {
	q := url.Values{}
	q.Set("on_conflict", "user_id,date")

	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	}

	var stored []Record
	if err := s.do(ctx, http.MethodPost, s.entriesURL(q), headers, []Record{rec}, &stored, true); err != nil {
		return Record{}, err
	}
	if len(stored) == 0 {
		return Record{}, fmt.Errorf("remote store: upsert returned no representation")
	}
	return stored[0], nil
}

func (s *HTTPStore) DeleteEntry(ctx context.Context, ownerID, date string) error {
	q := url.Values{}
	q.Set("user_id", "eq."+ownerID)
	q.Set("date", "eq."+date)
	return s.do(ctx, http.MethodDelete, s.entriesURL(q), nil, nil, nil, true)
}

func (s *HTTPStore) Close() error {
	s.hc.CloseIdleConnections()
	return nil
}

func (s *HTTPStore) entriesURL(q url.Values) string {
	return s.baseURL + "/rest/v1/entries?" + q.Encode()
}

// do performs one JSON request/response cycle. When authed is true and the
// first attempt comes back 401, the session is refreshed once and the
// request replayed with the new access token.
func (s *HTTPStore) do(ctx context.Context, method, rawURL string, headers map[string]string, body, out any, authed bool) error {
	err := s.doOnce(ctx, method, rawURL, headers, body, out, authed)

	var se *statusError
	if authed && errors.As(err, &se) && se.code == http.StatusUnauthorized {
		if rerr := s.refreshOnce(ctx); rerr != nil {
			return rerr
		}
		err = s.doOnce(ctx, method, rawURL, headers, body, out, authed)
	}

	if errors.As(err, &se) && (se.code == http.StatusUnauthorized || se.code == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return err
}

func (s *HTTPStore) refreshOnce(ctx context.Context) error {
	_, refresh := s.tokens()
	if refresh == "" {
		return ErrUnauthorized
	}
	if _, err := s.RefreshSession(ctx, refresh); err != nil {
		return err
	}
	return nil
}

func (s *HTTPStore) doOnce(ctx context.Context, method, rawURL string, headers map[string]string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("X-Client-Request-Id", uuid.NewString())
	if authed {
		access, _ := s.tokens()
		if access == "" {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
