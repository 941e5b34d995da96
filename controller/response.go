package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope 与客户端 gateway.Envelope 相同的统一响应结构。
type envelope struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// RespondSuccess 以 200 返回成功响应。
func RespondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Success: true, Message: message, Data: data})
}

// RespondError 以 status 返回失败响应，data 固定为 null。
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Code: status, Success: false, Message: message})
}

// AbortWithError 返回失败响应并终止后续 handler。
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Code: status, Success: false, Message: message})
}
