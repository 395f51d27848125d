package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "middleware-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "usalclinic",
	})
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, jwt *auth.JWTManager, role domain.Role, mustChange bool) (http.Header, *domain.Claims) {
	t.Helper()
	claims := &domain.Claims{UserID: uuid.New(), Email: "x@clinic.com", Role: role, MustChangePassword: mustChange}
	pair, err := jwt.GenerateTokenPair(claims)
	require.NoError(t, err)
	return http.Header{"Authorization": {"Bearer " + pair.AccessToken}}, claims
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := serve(r, http.MethodGet, "/x", nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())

	w = serve(r, http.MethodGet, "/x", http.Header{HeaderRequestID: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestAuthenticate(t *testing.T) {
	jwt := newJWT()
	r := gin.New()
	r.Use(Authenticate(jwt))
	r.GET("/me", func(c *gin.Context) {
		caller := Caller(c)
		c.JSON(http.StatusOK, gin.H{"user_id": caller.UserID, "role": caller.Role})
	})

	w := serve(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer not-a-token"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	header, claims := bearer(t, jwt, domain.RoleNurse, false)
	w = serve(r, http.MethodGet, "/me", header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), claims.UserID.String())

	pair, err := jwt.GenerateTokenPair(claims)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", http.Header{"Authorization": {"Bearer " + pair.RefreshToken}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	jwt := newJWT()
	r := gin.New()
	r.Use(Authenticate(jwt))
	r.GET("/admin", RequireRoles(domain.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	header, _ := bearer(t, jwt, domain.RoleDoctor, false)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", header).Code)

	header, _ = bearer(t, jwt, domain.RoleAdmin, false)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", header).Code)
}

func TestRequirePasswordChanged(t *testing.T) {
	jwt := newJWT()
	r := gin.New()
	r.Use(Authenticate(jwt), RequirePasswordChanged())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	header, _ := bearer(t, jwt, domain.RolePatient, true)
	w := serve(r, http.MethodGet, "/x", header)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PASSWORD_CHANGE_REQUIRED")

	header, _ = bearer(t, jwt, domain.RolePatient, false)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", header).Code)
}

func TestCaller_Anonymous(t *testing.T) {
	r := gin.New()
	r.GET("/public", func(c *gin.Context) {
		caller := Caller(c)
		assert.Equal(t, uuid.Nil, caller.UserID)
		c.String(http.StatusOK, caller.IP)
	})

	w := serve(r, http.MethodGet, "/public", nil)
	assert.Equal(t, "192.0.2.1", w.Body.String())
}

func TestIPRateLimit(t *testing.T) {
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(IPRateLimit(ratelimit.NewIPLimiter(0.001, 2), m))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", nil).Code)
	w := serve(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal.WithLabelValues("ip")))
}

func TestAuthRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m := metrics.NewCollector("test", prometheus.NewRegistry())
	r := gin.New()
	r.POST("/login", AuthRateLimit(ratelimit.NewRedisWindow(client, "auth", 1, time.Minute), m, zap.NewNop()),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	w := serve(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// With redis gone the limiter lets requests through.
	mr.Close()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins: []string{"https://clinic.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         time.Hour,
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/x", http.Header{"Origin": {"https://clinic.example"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://clinic.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))

	w = serve(r, http.MethodGet, "/x", http.Header{"Origin": {"https://evil.example"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/patients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/patients/"+uuid.NewString(), nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/patients/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodGet, "/boom", nil).Code)
}
