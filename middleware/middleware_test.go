package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandlingMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandlingMiddleware(core.NewNopLogger()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "系统内部错误，请稍后重试", gjson.GetBytes(w.Body.Bytes(), "message").String())
}

func TestBearerAuth(t *testing.T) {
	jwtUtil := dependencies.NewJWTUtility(&config.JWTConfig{SecretKey: "s", Issuer: "i"})
	r := gin.New()
	r.GET("/me", BearerAuth(jwtUtil, core.NewNopLogger()), func(c *gin.Context) {
		id, ok := UserIDFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})

	token, err := jwtUtil.GenerateAccessToken(9, "13800138000")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), gjson.GetBytes(w.Body.Bytes(), "id").Int())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRequestTimeoutMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeoutMiddleware(core.NewNopLogger(), 50*time.Millisecond))
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"hasDeadline": ok})
	})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/deadline", nil))
	assert.True(t, gjson.GetBytes(w.Body.Bytes(), "hasDeadline").Bool())

	r = gin.New()
	r.Use(RequestTimeoutMiddleware(core.NewNopLogger(), 0))
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"hasDeadline": ok})
	})
	w = serve(r, httptest.NewRequest(http.MethodGet, "/deadline", nil))
	assert.False(t, gjson.GetBytes(w.Body.Bytes(), "hasDeadline").Bool())
}
