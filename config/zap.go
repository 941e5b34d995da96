package config

// ZapConfig 定义 Zap 日志记录器的配置。
type ZapConfig struct {
	Level      string `mapstructure:"level" json:"level" yaml:"level"`                   // 日志级别: debug, info, warn, error
	Encoding   string `mapstructure:"encoding" json:"encoding" yaml:"encoding"`          // 输出格式: json 或 console
	OutputPath string `mapstructure:"output_path" json:"output_path" yaml:"output_path"` // 日志输出路径，留空表示 stderr
}

// TracerConfig 定义 OpenTelemetry 追踪相关的配置。
// - 启用后网关的 HTTP 客户端与 mock 服务端都会挂载 otel 插桩。
type TracerConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// Exporter 可选 "stdout"（默认）或 "otlphttp"
	Exporter string `mapstructure:"exporter" json:"exporter" yaml:"exporter"`

	// Endpoint otlphttp 导出地址，例如 "localhost:4318"
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`

	// SampleRatio 采样率，(0,1]，0 按 1 处理
	SampleRatio float64 `mapstructure:"sample_ratio" json:"sample_ratio" yaml:"sample_ratio"`
}
