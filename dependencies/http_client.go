package dependencies

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Xushengqwer/codefix_portal/config"
)

// NewHTTPClient 创建网关使用的 HTTP 客户端。
// - 启用追踪时用 otelhttp 包装默认 Transport。
func NewHTTPClient(gwCfg *config.GatewayConfig, tracerCfg *config.TracerConfig) *http.Client {
	client := &http.Client{Timeout: gwCfg.Timeout}
	if tracerCfg.Enabled {
		client.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return client
}
