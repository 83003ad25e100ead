package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gasdesk/gasdesk/internal/shared"
)

func newSessionManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.Empty(t, sess.DealerCode())

	sess.SetDealer("ABC123", false)
	sess.Set("snapshot", "snap-1")

	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, req, sess))

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "test_session", cookies[0].Name)

	// A follow-up request with the cookie sees the same state.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	require.Equal(t, "ABC123", loaded.DealerCode())
	require.False(t, loaded.IsAdmin())
	require.Equal(t, "snap-1", loaded.Get("snapshot"))
}

func TestSessionAdminFlagSurvivesReload(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetDealer("ADMIN", true)

	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(res.Result().Cookies()[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	require.True(t, loaded.IsAdmin())
}

func TestSessionDestroy(t *testing.T) {
	sm := newSessionManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SetDealer("ABC123", false)

	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, req, sess))
	cookie := res.Result().Cookies()[0]

	sm.Destroy(sess)
	res2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res2, req, sess))
	expired := res2.Result().Cookies()[0]
	require.Negative(t, expired.MaxAge)

	// The stored payload is gone; the old cookie now yields a fresh session.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	require.Empty(t, loaded.DealerCode())
}

func TestCSRFTokenVerification(t *testing.T) {
	sm := newSessionManager(t)
	csrf := shared.NewCSRFManager("csrfsecret")
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)

	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, csrf.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), shared.ErrCSRFTokenMissing)
	require.ErrorIs(t, csrf.VerifyToken(ctx, sess, "bogus"), shared.ErrCSRFTokenMismatch)
}
