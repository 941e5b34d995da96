package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/codefix_portal/core"
)

// RequestTimeoutMiddleware 为请求上下文设置超时，timeout <= 0 时不生效。
// - 只负责传递截止时间，handler 需自行响应 ctx.Done()。
func RequestTimeoutMiddleware(logger *core.ZapLogger, timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		logger.Debug("未配置请求超时，跳过超时中间件")
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
