package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gasdesk/gasdesk/internal/shared"
)

func newTestHandler(t *testing.T) (*Handler, *Service, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	svc, _, _ := newTestService(t)
	h := NewHandler(testLogger(), svc, sessions, AdminCredentials{Code: "ADMIN", PIN: "9999"})
	return h, svc, sessions
}

func withSession(t *testing.T, sm *shared.SessionManager, req *http.Request, code string, admin bool) *http.Request {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	if code != "" {
		sess.SetDealer(code, admin)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestHandleRegister(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"name":"Shree Gas","email":"shree@example.com","package":"basic"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	res := httptest.NewRecorder()
	h.handleRegister(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	var creds Credentials
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &creds))
	require.Len(t, creds.DealerCode, 6)
	require.Len(t, creds.PIN, 4)
}

func TestHandleRegisterInvalidEmail(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{"name":"X","email":"nope","package":"basic"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	res := httptest.NewRecorder()
	h.handleRegister(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandleLoginAdmin(t *testing.T) {
	h, _, sessions := newTestHandler(t)

	body := bytes.NewBufferString(`{"dealer_code":"ADMIN","pin":"9999"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req = withSession(t, sessions, req, "", false)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	sess := shared.SessionFromContext(req.Context())
	require.True(t, sess.IsAdmin())
	require.Equal(t, "ADMIN", sess.DealerCode())
}

func TestHandleLoginDealerLifecycle(t *testing.T) {
	h, svc, sessions := newTestHandler(t)
	creds := register(t, svc, "basic")

	login := func() *httptest.ResponseRecorder {
		payload, err := json.Marshal(map[string]string{"dealer_code": creds.DealerCode, "pin": creds.PIN})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
		req = withSession(t, sessions, req, "", false)
		res := httptest.NewRecorder()
		h.handleLogin(res, req)
		return res
	}

	// Pending account cannot sign in yet.
	require.Equal(t, http.StatusForbidden, login().Code)

	_, err := svc.Approve(context.Background(), creds.DealerCode, "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, login().Code)
}

func TestHandleLoginBadCredentials(t *testing.T) {
	h, _, sessions := newTestHandler(t)

	body := bytes.NewBufferString(`{"dealer_code":"NOPE","pin":"0000"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req = withSession(t, sessions, req, "", false)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAdmin(t *testing.T) {
	_, _, sessions := newTestHandler(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Anonymous request.
	req := httptest.NewRequest(http.MethodGet, "/admin/summary", nil)
	res := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	// Signed-in dealer without the admin flag.
	req = withSession(t, sessions, httptest.NewRequest(http.MethodGet, "/admin/summary", nil), "ABC123", false)
	res = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)

	// Admin session passes through.
	req = withSession(t, sessions, httptest.NewRequest(http.MethodGet, "/admin/summary", nil), "ADMIN", true)
	res = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusNoContent, res.Code)
}

func TestRequireDealer(t *testing.T) {
	_, _, sessions := newTestHandler(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	res := httptest.NewRecorder()
	RequireDealer(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	req = withSession(t, sessions, httptest.NewRequest(http.MethodGet, "/records", nil), "ABC123", false)
	res = httptest.NewRecorder()
	RequireDealer(next).ServeHTTP(res, req)
	require.Equal(t, http.StatusNoContent, res.Code)
}
