package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(r, httptest.NewRequest("GET", "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestAuthRequired(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")

	r := gin.New()
	r.Use(AuthRequired())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "verified": c.GetBool("is_verified")})
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest("GET", "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		token, err := utils.GenerateRefreshToken(uuid.New(), 1)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		userID := uuid.New()
		token, err := utils.GenerateJWT(userID, "Rajesh Kumar", "rajesh.kumar@email.com", true, 1)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, true, body["verified"])
	})
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	r := gin.New()
	r.Use(OptionalAuth())
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := serve(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestI18nMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("lang"))
	})

	tests := map[string]string{
		"hi-IN,hi;q=0.9,en;q=0.8": "hi",
		"fr-FR":                   "en",
		"":                        "en",
	}
	for header, want := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Accept-Language", header)
		assert.Equal(t, want, serve(r, req).Body.String(), header)
	}
}

func TestChatRateLimitRespondsPlainJSON(t *testing.T) {
	r := gin.New()
	r.Use(ChatRateLimit(config.RateLimitConfig{ChatPerMinute: 1, ChatBurst: 2}))
	r.POST("/api/chat", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = serve(r, httptest.NewRequest("POST", "/api/chat", nil)).Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := serve(r, httptest.NewRequest("POST", "/api/chat", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.NotContains(t, body, "success")
}

func TestGeneralRateLimitUsesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(GeneralRateLimit(config.RateLimitConfig{GeneralPerSecond: 1, GeneralBurst: 1}))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest("GET", "/", nil))
	w := serve(r, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "RATE_LIMITED", body["error"].(map[string]interface{})["code"])
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://bizease.in"}))
	r.GET("/v1/requirements", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("OPTIONS", "/v1/requirements", nil)
	req.Header.Set("Origin", "https://bizease.in")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://bizease.in", w.Header().Get("Access-Control-Allow-Origin"))
}
