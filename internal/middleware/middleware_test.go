package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/response"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth() *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}
	return service.NewAuthService(cfg, session.NewMemoryStore())
}

func protectedRouter(auth *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireSession(auth, zerolog.New(io.Discard))}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, GetUser(c).FullName)
	})
	r.GET("/p", handlers...)
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	auth := newAuth()
	ctx := context.Background()
	user := &model.User{ID: "u-1", FullName: "Asha Rao", Role: model.RoleStudent}
	token, err := auth.Establish(ctx, user)
	require.NoError(t, err)
	r := protectedRouter(auth)

	w := call(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha Rao", w.Body.String())

	w = call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrTokenRequired))

	w = call(r, "garbage")
	assert.Contains(t, w.Body.String(), string(response.ErrTokenInvalid))

	require.NoError(t, auth.Teardown(ctx, user.ID))
	w = call(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrSessionInvalidated))
}

func TestRequireSession_QueryToken(t *testing.T) {
	auth := newAuth()
	token, err := auth.Establish(context.Background(), &model.User{ID: "u-1", FullName: "Asha Rao", Role: model.RoleStudent})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	protectedRouter(auth).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAndPermission(t *testing.T) {
	auth := newAuth()
	ctx := context.Background()
	student, err := auth.Establish(ctx, &model.User{ID: "u-1", FullName: "Asha Rao", Role: model.RoleStudent})
	require.NoError(t, err)
	admin, err := auth.Establish(ctx, &model.User{ID: "u-2", FullName: "Dr. Evelyn Reed", Role: model.RoleAdmin})
	require.NoError(t, err)

	adminOnly := protectedRouter(auth, RequireRole(model.RoleAdmin), RequirePermission(model.PermissionRequestsProcess))
	assert.Equal(t, http.StatusOK, call(adminOnly, admin).Code)
	w := call(adminOnly, student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrAdminAccessOnly))

	submitOnly := protectedRouter(auth, RequirePermission(model.PermissionRequestsSubmit))
	assert.Equal(t, http.StatusOK, call(submitOnly, student).Code)
	w = call(submitOnly, admin)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrPermissionDenied))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(30 * time.Second)
	assert.True(t, rl.allow("1.1.1.1"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1)
	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func brotliRouter(contentType string, body []byte) *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/", func(c *gin.Context) { c.Data(http.StatusOK, contentType, body) })
	return r
}

func getWithBrotli(r http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotli_CompressesLargeJSON(t *testing.T) {
	body := []byte(`{"data":"` + strings.Repeat("bonafide ", 100) + `"}`)
	w := getWithBrotli(brotliRouter("application/json", body))

	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestBrotli_SkipsSmallAndBinary(t *testing.T) {
	small := getWithBrotli(brotliRouter("application/json", []byte(`{"data":1}`)))
	assert.Empty(t, small.Header().Get("Content-Encoding"))
	assert.Equal(t, `{"data":1}`, small.Body.String())

	pdf := bytes.Repeat([]byte("%PDF-1.4 "), 50)
	w := getWithBrotli(brotliRouter("application/pdf", pdf))
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, pdf, w.Body.Bytes())
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/static", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static", nil))
	assert.Equal(t, "public, max-age=60, immutable", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(response.RequestIDMiddleware(), AccessLog(zerolog.New(&buf)))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(response.HeaderRequestID, "req-abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"path":"/items/:id"`)
	assert.Contains(t, line, `"status":404`)
	assert.Contains(t, line, `"request_id":"req-abc"`)
}
