package constants

import (
	"time"
)

const (
	// TokenKey 令牌在持久化存储中的固定键名，与前端 localStorage.getItem('token') 一致
	TokenKey = "token"

	// ServiceName 用于 otel 插桩与日志的服务名
	ServiceName = "codefix-portal"

	// ServiceVersion 当前版本
	ServiceVersion = "1.0.0"

	// MockAccessTokenTTL mock 后端签发令牌的有效期
	MockAccessTokenTTL = 7 * 24 * time.Hour

	// DefaultPollInterval 扫码登录/订单支付状态的默认轮询间隔
	DefaultPollInterval = 2 * time.Second
)
