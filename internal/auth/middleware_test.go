package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/me", Middleware(secret), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	r.POST("/verify-pin", PinPhaseMiddleware(secret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin", Middleware(secret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	r := protectedRouter(testSecret)

	t.Run("Missing header", func(t *testing.T) {
		w := doRequest(r, "GET", "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Malformed token", func(t *testing.T) {
		w := doRequest(r, "GET", "/me", "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid access token", func(t *testing.T) {
		token, err := GenerateAccessToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "GET", "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u-1")
	})

	t.Run("Pin token rejected on access route", func(t *testing.T) {
		token, err := GeneratePinToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "GET", "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Pin token accepted on pin route", func(t *testing.T) {
		token, err := GeneratePinToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "POST", "/verify-pin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Access token rejected on pin route", func(t *testing.T) {
		token, err := GenerateAccessToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "POST", "/verify-pin", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(testSecret)

	t.Run("Regular user forbidden", func(t *testing.T) {
		token, err := GenerateAccessToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "GET", "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin allowed", func(t *testing.T) {
		token, err := GenerateAccessToken("a-1", "boss", "admin", testSecret)
		require.NoError(t, err)

		w := doRequest(r, "GET", "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Role claim is taken from the token, not the request", func(t *testing.T) {
		// A user cannot elevate by sending extra headers; the role
		// lives inside the signed token.
		token, err := GenerateAccessToken("u-1", "rahul", "user", testSecret)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Role", "admin")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
