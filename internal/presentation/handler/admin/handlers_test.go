package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilthontt/drift/internal/domain"
	"github.com/hilthontt/drift/internal/infrastructure/configs"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/presentation/handler/pages"
	"github.com/hilthontt/drift/internal/presentation/utils"
)

type stubEngine struct {
	snap domain.DebugSnapshot
	err  error
}

func (s *stubEngine) Snapshot(ctx context.Context) (domain.DebugSnapshot, error) {
	return s.snap, s.err
}

func newTestHandler(engine SnapshotProvider) *Handler {
	cfg := configs.AdminConfig{
		Username: "admin",
		Password: "hunter2",
		Secret:   "push-secret",
	}
	return NewHandler(cfg, pages.NewHandler(), engine, logging.NewNopLogger())
}

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		password     string
		wantLocation string
		wantCookie   bool
	}{
		{name: "valid credentials", username: "admin", password: "hunter2", wantLocation: "/admin", wantCookie: true},
		{name: "wrong password", username: "admin", password: "nope", wantLocation: "/admin-login.html?error=1"},
		{name: "wrong username", username: "root", password: "hunter2", wantLocation: "/admin-login.html?error=1"},
		{name: "empty form", username: "", password: "", wantLocation: "/admin-login.html?error=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubEngine{})
			w := httptest.NewRecorder()

			h.Login(w, loginRequest(tt.username, tt.password))

			res := w.Result()
			assert.Equal(t, http.StatusSeeOther, res.StatusCode)
			assert.Equal(t, tt.wantLocation, res.Header.Get("Location"))

			if tt.wantCookie {
				require.Len(t, res.Cookies(), 1)
				assert.Equal(t, utils.CookieAdminSession, res.Cookies()[0].Name)
			} else {
				assert.Empty(t, res.Cookies())
			}
		})
	}
}

func TestPageRedirectsWithoutSession(t *testing.T) {
	h := newTestHandler(&stubEngine{})
	w := httptest.NewRecorder()

	h.Page(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	res := w.Result()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/admin-login.html", res.Header.Get("Location"))
}

func TestPageServesDashboardWithSession(t *testing.T) {
	h := newTestHandler(&stubEngine{})

	rec := httptest.NewRecorder()
	utils.SetAdminSessionCookie(rec, []byte("push-secret"))
	session := rec.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(session)

	w := httptest.NewRecorder()
	h.Page(w, r)

	res := w.Result()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
}

func TestLogoutClearsSession(t *testing.T) {
	h := newTestHandler(&stubEngine{})
	w := httptest.NewRecorder()

	h.Logout(w, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))

	res := w.Result()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/admin-login.html", res.Header.Get("Location"))
	require.Len(t, res.Cookies(), 1)
	assert.Empty(t, res.Cookies()[0].Value)
}

func TestDebugDataRequiresSession(t *testing.T) {
	h := newTestHandler(&stubEngine{})
	w := httptest.NewRecorder()

	h.DebugData(w, httptest.NewRequest(http.MethodGet, "/debug-data", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestDebugDataReturnsSnapshot(t *testing.T) {
	engine := &stubEngine{
		snap: domain.DebugSnapshot{
			Snapshot: domain.Snapshot{
				Stats: domain.Stats{TotalOnline: 7, TotalMessages: 42},
			},
			AdminConnections: []string{"admin1"},
		},
	}
	h := newTestHandler(engine)

	rec := httptest.NewRecorder()
	utils.SetAdminSessionCookie(rec, []byte("push-secret"))
	session := rec.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/debug-data", nil)
	r.AddCookie(session)

	w := httptest.NewRecorder()
	h.DebugData(w, r)

	res := w.Result()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got domain.DebugSnapshot
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, 7, got.Stats.TotalOnline)
	assert.Equal(t, int64(42), got.Stats.TotalMessages)
	assert.Equal(t, []string{"admin1"}, got.AdminConnections)
}
