package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(t *testing.T, db Pinger) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	jwt := auth.NewJWTManager(config.JWTConfig{
		Secret:          "router-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "usalclinic",
	})
	cfg := &config.Config{
		App:     config.AppConfig{Name: "usalclinic-api", Environment: "test", Version: "1.2.3"},
		Tracing: config.TracingConfig{ServiceName: "usalclinic-api"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	r := NewRouter(RouterDeps{
		Config:    cfg,
		Log:       zap.NewNop(),
		Metrics:   metrics.NewCollector("usalclinic_test", prometheus.NewRegistry()),
		JWT:       jwt,
		IPLimiter: ratelimit.NewIPLimiter(1000, 1000),
		DB:        db,
	})
	return r, jwt
}

func token(t *testing.T, jwt *auth.JWTManager, role domain.Role, mustChange bool) string {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(&domain.Claims{
		UserID:             uuid.New(),
		Email:              "user@clinic.com",
		Role:               role,
		MustChangePassword: mustChange,
	})
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func do(r *gin.Engine, method, path, authz, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := newTestRouter(t, stubPinger{})
	w := do(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1.2.3")
	assert.NotContains(t, w.Body.String(), "mail")

	r, _ = newTestRouter(t, stubPinger{err: errors.New("dial tcp: refused")})
	w = do(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_AuthGating(t *testing.T) {
	r, jwt := newTestRouter(t, stubPinger{})

	tests := []struct {
		name   string
		method string
		path   string
		authz  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/departments", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/departments", "Bearer x.y.z", http.StatusUnauthorized},
		{"provisioned password", http.MethodGet, "/api/v1/departments", token(t, jwt, domain.RoleDoctor, true), http.StatusForbidden},
		{"dashboard as nurse", http.MethodGet, "/api/v1/dashboard", token(t, jwt, domain.RoleNurse, false), http.StatusForbidden},
		{"audit logs as doctor", http.MethodGet, "/api/v1/audit-logs", token(t, jwt, domain.RoleDoctor, false), http.StatusForbidden},
		{"approve as patient", http.MethodPost, "/api/v1/patient-requests/" + uuid.NewString() + "/approve", token(t, jwt, domain.RolePatient, false), http.StatusForbidden},
		{"faq write as doctor", http.MethodPost, "/api/v1/faqs", token(t, jwt, domain.RoleDoctor, false), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.authz, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_ProvisionedPasswordBlocksAllButChange(t *testing.T) {
	r, jwt := newTestRouter(t, stubPinger{})
	authz := token(t, jwt, domain.RolePatient, true)

	w := do(r, http.MethodGet, "/api/v1/appointments", authz, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PASSWORD_CHANGE_REQUIRED")

	// Reaches the handler, which rejects the empty body.
	w = do(r, http.MethodPost, "/api/v1/auth/change-password", authz, "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_BadInputStopsBeforeService(t *testing.T) {
	r, jwt := newTestRouter(t, stubPinger{})
	admin := token(t, jwt, domain.RoleAdmin, false)

	w := do(r, http.MethodGet, "/api/v1/departments/not-a-uuid", admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/shifts/role/janitor", admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/alerts/urgent", admin, `{"department_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/appointments?date_from=yesterday", admin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	r, _ := newTestRouter(t, stubPinger{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/departments", nil)
	req.Header.Set("Origin", "https://portal.clinic.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.clinic.com", w.Header().Get("Access-Control-Allow-Origin"))
}
