package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/core"
)

// ErrorHandlingMiddleware 捕获 handler 中的 panic，记录日志并返回统一的 500 响应。
func ErrorHandlingMiddleware(logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("请求处理发生 panic",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    http.StatusInternalServerError,
					"success": false,
					"message": commonerrors.ErrSystemError.Error(),
					"data":    nil,
				})
			}
		}()
		c.Next()
	}
}
