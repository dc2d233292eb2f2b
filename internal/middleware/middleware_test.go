package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, rol string, dur time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID:   "11111111-1111-1111-1111-111111111111",
		Username: "testuser",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/protegido", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SinToken(t *testing.T) {
	w := doGet(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	w := doGet(protectedRouter(), signToken(t, "vendedor", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	w := doGet(protectedRouter(), signToken(t, "vendedor", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter("supervisor", "administrador")

	assert.Equal(t, http.StatusForbidden, doGet(r, signToken(t, "vendedor", time.Hour)).Code)
	assert.Equal(t, http.StatusOK, doGet(r, signToken(t, "supervisor", time.Hour)).Code)
	assert.Equal(t, http.StatusOK, doGet(r, signToken(t, "administrador", time.Hour)).Code)
}

func TestCatalogRateLimiter_VentanaFija(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/productos", CatalogRateLimiter(3, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/productos", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post("10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:1234"))
	// Another source address keeps its own window.
	assert.Equal(t, http.StatusCreated, post("10.0.0.2:1234"))
}
