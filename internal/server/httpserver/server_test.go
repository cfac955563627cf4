package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth keeps users and revocations in memory. Tokens are "tok-<n>".
type fakeAuth struct {
	mu      sync.Mutex
	users   map[string]string
	tokens  map[string]*services.Identity
	revoked map[string]bool
	seq     int

	authErr   error
	loginErr  error
	logoutErr error
	panicMe   bool
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		users:   map[string]string{},
		tokens:  map[string]*services.Identity{},
		revoked: map[string]bool{},
	}
}

func (f *fakeAuth) Signup(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicMe {
		panic("boom")
	}
	if _, ok := f.users[email]; ok {
		return fmt.Errorf("error creating user: email %q: %w", email, common.ErrAlreadyExists)
	}
	f.users[email] = password
	return nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if pw, ok := f.users[email]; !ok || pw != password {
		return "", common.ErrorUnauthorized
	}
	f.seq++
	tok := fmt.Sprintf("tok-%d", f.seq)
	f.tokens[tok] = &services.Identity{Email: email, JTI: tok, ExpiresAt: time.Now().Add(time.Hour)}
	return tok, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*services.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authErr != nil {
		return nil, f.authErr
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("%w: signature is invalid", common.ErrInvalidToken)
	}
	if f.revoked[id.JTI] {
		return nil, common.ErrTokenRevoked
	}
	return id, nil
}

func (f *fakeAuth) Logout(_ context.Context, id *services.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.revoked[id.JTI] = true
	return nil
}

func newTestServer(t *testing.T, svc AuthService) (*HTTPServer, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewHTTPServer(":0", logging.New(logging.BackendSlog, buf), svc, gin.TestMode), buf
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]string{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestScenario_SignupLoginMeLogout(t *testing.T) {
	s, _ := newTestServer(t, newFakeAuth())
	h := s.Handler()
	creds := `{"email":"a@x.com","password":"pw1"}`

	rec, body := do(t, h, http.MethodPost, "/signup", creds, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]string{"signup": "success"}, body)

	rec, body = do(t, h, http.MethodPost, "/signup", creds, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed", body["signup"])
	assert.Contains(t, body["reason"], "already exists")

	rec, body = do(t, h, http.MethodPost, "/login", creds, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["access_token"]
	require.NotEmpty(t, token)

	rec, body = do(t, h, http.MethodGet, "/me", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", body["email"])

	rec, body = do(t, h, http.MethodPost, "/logout", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"logout": "success"}, body)

	rec, body = do(t, h, http.MethodGet, "/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, common.ErrTokenRevoked.Error(), body["error"])

	rec, _ = do(t, h, http.MethodPost, "/logout", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignup_BadBodies(t *testing.T) {
	s, _ := newTestServer(t, newFakeAuth())
	h := s.Handler()

	for name, body := range map[string]string{
		"missing password": `{"email":"a@x.com"}`,
		"empty email":      `{"email":"","password":"pw"}`,
		"not json":         `nope`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/signup", body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "failed", out["signup"])
			assert.NotEmpty(t, out["reason"])
		})
	}
}

func TestLogin_FailuresAreGeneric(t *testing.T) {
	f := newFakeAuth()
	f.users["a@x.com"] = "pw1"
	s, _ := newTestServer(t, f)
	h := s.Handler()

	for name, body := range map[string]string{
		"wrong password": `{"email":"a@x.com","password":"nope"}`,
		"unknown email":  `{"email":"b@x.com","password":"pw1"}`,
		"missing fields": `{}`,
		"malformed":      `{"email":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/login", body, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, map[string]string{"login": "failed"}, out)
		})
	}
}

func TestLogin_StoreError(t *testing.T) {
	f := newFakeAuth()
	f.loginErr = fmt.Errorf("%w: db down", common.ErrorInternal)
	s, logs := newTestServer(t, f)

	rec, out := do(t, s.Handler(), http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]string{"login": "failed"}, out)
	assert.Contains(t, logs.String(), "db down")
}

func TestGate(t *testing.T) {
	f := newFakeAuth()
	s, _ := newTestServer(t, f)
	h := s.Handler()

	tests := []struct {
		name   string
		header string
		status int
		reason string
	}{
		{"missing", "", http.StatusUnauthorized, common.ErrMissingToken.Error()},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, common.ErrInvalidAuthHeader.Error()},
		{"no token", "Bearer ", http.StatusUnauthorized, common.ErrInvalidAuthHeader.Error()},
		{"unknown token", "Bearer garbage", http.StatusUnauthorized, common.ErrInvalidToken.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(common.AuthorizationHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			var out map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, tt.reason, out["error"])
		})
	}
}

func TestGate_ExpiredAndStoreError(t *testing.T) {
	f := newFakeAuth()
	s, _ := newTestServer(t, f)
	h := s.Handler()

	f.authErr = common.ErrTokenExpired
	rec, out := do(t, h, http.MethodGet, "/me", "", "t")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, common.ErrTokenExpired.Error(), out["error"])

	f.authErr = fmt.Errorf("%w: lookup: conn refused", common.ErrorInternal)
	rec, out = do(t, h, http.MethodPost, "/logout", "", "t")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", out["error"])
}

func TestLogout_StoreError(t *testing.T) {
	f := newFakeAuth()
	f.users["a@x.com"] = "pw1"
	s, _ := newTestServer(t, f)
	h := s.Handler()

	_, body := do(t, h, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	f.logoutErr = fmt.Errorf("error revoking token: db gone")

	rec, out := do(t, h, http.MethodPost, "/logout", "", body["access_token"])
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed", out["logout"])
	assert.Contains(t, out["reason"], "db gone")
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, newFakeAuth())
	h := s.Handler()

	rec, _ := do(t, h, http.MethodGet, "/me", "", "")
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestAccessLogLevels(t *testing.T) {
	f := newFakeAuth()
	s, logs := newTestServer(t, f)
	h := s.Handler()

	do(t, h, http.MethodPost, "/signup", `{"email":"a@x.com","password":"pw1"}`, "")
	do(t, h, http.MethodGet, "/me", "", "")

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	var levels []string
	for _, l := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &rec))
		if rec["msg"] == "Request completed" {
			levels = append(levels, rec["level"].(string))
			assert.Len(t, rec["request_id"], 36)
		}
	}
	assert.Equal(t, []string{"INFO", "WARN"}, levels)
}

func TestRecovery(t *testing.T) {
	f := newFakeAuth()
	f.panicMe = true
	s, logs := newTestServer(t, f)

	rec, out := do(t, s.Handler(), http.MethodPost, "/signup", `{"email":"a@x.com","password":"pw1"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", out["error"])
	assert.Contains(t, logs.String(), "Panic recovered")
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = bearerToken("abc")
	assert.ErrorIs(t, err, common.ErrInvalidAuthHeader)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, newFakeAuth())
	s.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
