package eventhub

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-hub/internal/cache"
	"github.com/magabrotheeeer/event-hub/internal/config"
	"github.com/magabrotheeeer/event-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/event-hub/internal/models"
	dashboardservice "github.com/magabrotheeeer/event-hub/internal/services/dashboard"
)

type statsRepo struct{}

func (statsRepo) DashboardStats(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalEvents: 2, PublishedEvents: 1}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newRouter(t *testing.T, authEnabled bool) (chi.Router, *jwt.Maker) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()}), TTL: time.Minute}
	t.Cleanup(func() { _ = c.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Auth.Enabled = authEnabled

	maker := jwt.NewJWTMaker("secret", time.Hour)
	services := Services{
		Dashboard: dashboardservice.NewDashboardService(statsRepo{}, c, logger),
	}

	r := chi.NewRouter()
	RegisterRoutes(r, logger, cfg, services, maker, okPinger{}, c)
	return r, maker
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_AdminRequiresToken(t *testing.T) {
	r, maker := newRouter(t, true)

	w := do(r, http.MethodPost, "/api/events", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userToken, err := maker.GenerateToken("u1", "user@example.com", models.RoleUser)
	require.NoError(t, err)
	w = do(r, http.MethodDelete, "/api/events/e1", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := maker.GenerateToken("a1", "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/api/dashboard/stats", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalEvents":2,"publishedEvents":1,"popularCategory":null}`, w.Body.String())
}

func TestRoutes_AuthDisabled(t *testing.T) {
	r, _ := newRouter(t, false)

	w := do(r, http.MethodGet, "/api/dashboard/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_RegistrationIsRateLimited(t *testing.T) {
	// Нулевой лимит отклоняет запрос до обращения к сервису.
	r, _ := newRouter(t, false)

	w := do(r, http.MethodPost, "/api/events/e1/register", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	w = do(r, http.MethodPost, "/api/events/e1/registrations", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRoutes_Infrastructure(t *testing.T) {
	r, _ := newRouter(t, false)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
