package config

import "time"

// GatewayConfig 定义请求网关（访问后端 API 的唯一出口）的配置。
type GatewayConfig struct {
	// BaseURL 后端源地址，例如 "https://ai.wtc.edu.cn/api"，相对路径直接拼接在其后。
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`

	// Timeout 单次请求超时。0 表示不设超时，与前端 fetch 的行为一致。
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`

	// OnNullData 成功响应中 data 为 null 时的处理策略: "reject" 或 "pass-through"。
	OnNullData string `mapstructure:"on_null_data" json:"on_null_data" yaml:"on_null_data"`

	// AuthPolicy 需要令牌的接口在本地无令牌时的处理策略:
	//   - "strict": 不发请求，直接返回 commonerrors.ErrNoToken
	//   - "lenient": 照常发送，只是不带 Authorization 头
	AuthPolicy string `mapstructure:"auth_policy" json:"auth_policy" yaml:"auth_policy"`

	// FallbackPrefix 非 2xx 且服务端未给出 message 时合成提示语的前缀，最终形如 "请求失败: 502"。
	FallbackPrefix string `mapstructure:"fallback_prefix" json:"fallback_prefix" yaml:"fallback_prefix"`

	// Headers 额外的默认请求头，会与 Content-Type 一起作为默认头发送。
	Headers map[string]string `mapstructure:"headers" json:"headers" yaml:"headers"`
}
