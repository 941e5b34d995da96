package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
)

// ContextKeyUserID 认证通过后用户 ID 在 gin.Context 中的键。
const ContextKeyUserID = "userID"

// BearerAuth 要求请求携带有效的 "Authorization: Bearer <token>"。
func BearerAuth(jwtUtil dependencies.JWTTokenInterface, logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "请先登录")
			return
		}
		claims, err := jwtUtil.ParseAccessToken(token)
		if err != nil {
			logger.Warn("访问令牌校验失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortUnauthorized(c, "登录已失效，请重新登录")
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// UserIDFrom 取出认证中间件写入的用户 ID。
func UserIDFrom(c *gin.Context) (int, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"success": false,
		"message": msg,
		"data":    nil,
	})
}
