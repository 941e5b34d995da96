// Package testutil 为各包的测试提供运行在 httptest 上的 mock 后端与指向它的网关。
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/repository"
	"github.com/Xushengqwer/codefix_portal/repository/memory"
	"github.com/Xushengqwer/codefix_portal/router"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
	"github.com/Xushengqwer/codefix_portal/utils"
)

// SmsCode mock 后端下发的固定短信验证码。
const SmsCode = "123456"

// MockServer 运行中的 mock 后端。
type MockServer struct {
	Server  *httptest.Server
	Backend *mockbackend.Backend
	JWT     dependencies.JWTTokenInterface
	Config  config.CodefixConfig
}

// BaseURL 网关使用的后端地址（含 /api 前缀）。
func (m *MockServer) BaseURL() string {
	return m.Server.URL + "/api"
}

// NewMockServer 启动 mock 后端，测试结束时自动关闭。
// mutate 可在启动前调整配置，例如关闭某个支付平台。
func NewMockServer(t testing.TB, mutate ...func(*config.CodefixConfig)) *MockServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterCustomValidators())

	cfg := config.Default()
	cfg.MockServerConfig.SmsCodeForTest = SmsCode
	for _, m := range mutate {
		m(&cfg)
	}

	logger := core.NewNopLogger()
	jwtUtil := dependencies.NewJWTUtility(&cfg.JWTConfig)
	backend := mockbackend.NewBackend(&cfg.MockServerConfig, jwtUtil, logger)
	srv := httptest.NewServer(router.SetupRouter(logger, &cfg, jwtUtil, backend))
	t.Cleanup(srv.Close)

	return &MockServer{Server: srv, Backend: backend, JWT: jwtUtil, Config: cfg}
}

// NewGateway 创建指向 baseURL、使用内存令牌存储的网关。
func NewGateway(t testing.TB, baseURL string) (*gateway.Gateway, repository.TokenStore) {
	t.Helper()
	tokens := repository.NewTokenStore(memory.NewKVRepo())
	cfg := config.Default().GatewayConfig
	cfg.BaseURL = baseURL
	gw, err := gateway.NewGateway(&cfg, tokens, nil, core.NewNopLogger())
	require.NoError(t, err)
	return gw, tokens
}
