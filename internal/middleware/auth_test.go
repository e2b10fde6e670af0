package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"job-portal-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager(auth.Config{
		Secret:   "middleware-test-secret",
		Issuer:   "job-portal-api",
		Audience: "job-portal-clients",
		TTL:      time.Hour,
	})
}

func TestJWTAuthMiddleware_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.GET("/protected", func(c *gin.Context) {
		require.Equal(t, "user-1", c.GetString(CtxUserID))
		require.Equal(t, "candidate", c.GetString(CtxRole))
		c.Status(http.StatusOK)
	})

	token, err := tokens.GenerateToken("user-1", "alice", auth.RoleCandidate)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.GET("/ws", func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := tokens.GenerateToken("admin-1", "root", auth.RoleAdmin)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(testTokens()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(testTokens()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.GET("/admin", RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	for role, want := range map[auth.Role]int{
		auth.RoleAdmin:     http.StatusOK,
		auth.RoleEmployer:  http.StatusForbidden,
		auth.RoleCandidate: http.StatusForbidden,
	} {
		token, err := tokens.GenerateToken("u", "u", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code, role)
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
