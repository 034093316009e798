package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}, nil)
}

func signed(t *testing.T, auth *service.AuthService, perms ...model.Permission) string {
	t.Helper()
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, string(p))
	}
	token, err := auth.SignAdminToken(1, 1, codes, "jti", time.Now())
	require.NoError(t, err)
	return token
}

func protectedRouter(auth *service.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/students",
		RequireAdminJWT(auth),
		RequirePermission(model.PermissionStudentsRead),
		func(c *gin.Context) { c.String(http.StatusOK, "ok %d", GetClaims(c).UserID) })
	r.GET("/ws", RequireAdminWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequireAdminJWT(t *testing.T) {
	auth := testAuth()
	r := protectedRouter(auth)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + signed(t, auth, model.PermissionStudentsRead), http.StatusUnauthorized},
		{"lacks permission", "Bearer " + signed(t, auth, model.PermissionStaffRead), http.StatusForbidden},
		{"granted", "Bearer " + signed(t, auth, model.PermissionStudentsRead), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/students", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdminWSAuth(t *testing.T) {
	auth := testAuth()
	r := protectedRouter(auth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REQUIRED")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+signed(t, auth), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	clock := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	clock = clock.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
}

func compressedRouter() *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("daycare ", 100)) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "tiny") })
	r.GET("/pdf", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", bytes.Repeat([]byte("%PDF"), 100))
	})
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	w := get(compressedRouter(), "/big")

	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("daycare ", 100), string(body))
}

func TestBrotliLeavesSmallBodies(t *testing.T) {
	w := get(compressedRouter(), "/small")

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", w.Body.String())
}

func TestBrotliSkipsDocuments(t *testing.T) {
	w := get(compressedRouter(), "/pdf")

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, 400, w.Body.Len())
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/catalog", CacheControl(300), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/doc", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "private, max-age=300", get(r, "/catalog").Header().Get("Cache-Control"))
	assert.Equal(t, "no-store", get(r, "/doc").Header().Get("Cache-Control"))
}
