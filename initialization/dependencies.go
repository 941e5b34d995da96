package initialization

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/repository"
)

// AppDependencies 封装了客户端运行所需的基础依赖项。
type AppDependencies struct {
	Config     *config.CodefixConfig
	Logger     *core.ZapLogger
	Tokens     repository.TokenStore // Tokens: 持久化的登录令牌
	HTTPClient *http.Client
	Gateway    *gateway.Gateway

	storageCloser io.Closer
}

// SetupDependencies 按顺序初始化令牌存储、HTTP 客户端与请求网关。
// 返回的 AppDependencies 使用完毕后需调用 Close。
func SetupDependencies(cfg *config.CodefixConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	var deps AppDependencies
	deps.Config = cfg
	deps.Logger = logger

	// 1. 令牌存储
	storage, closer, err := dependencies.NewStorage(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化令牌存储失败: %w", err)
	}
	deps.storageCloser = closer
	deps.Tokens = repository.NewTokenStore(storage)
	logger.Debug("令牌存储初始化成功", zap.String("driver", cfg.StorageConfig.Driver))

	// 2. HTTP 客户端
	deps.HTTPClient = dependencies.NewHTTPClient(&cfg.GatewayConfig, &cfg.TracerConfig)

	// 3. 请求网关
	gw, err := gateway.NewGateway(&cfg.GatewayConfig, deps.Tokens, deps.HTTPClient, logger)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("初始化请求网关失败: %w", err)
	}
	deps.Gateway = gw
	logger.Debug("请求网关初始化成功", zap.String("baseURL", cfg.GatewayConfig.BaseURL))

	return &deps, nil
}

// Close 释放令牌存储占用的连接。
func (d *AppDependencies) Close() error {
	if d.storageCloser == nil {
		return nil
	}
	return d.storageCloser.Close()
}
