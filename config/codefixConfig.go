package config

import "time"

// CodefixConfig 是整个应用的顶层配置，按关注点拆分为多个子结构体。
// - 由 core.LoadConfig 从 YAML 文件加载，随后在 main 中按环境变量覆盖关键字段。
type CodefixConfig struct {
	ZapConfig        ZapConfig        `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	TracerConfig     TracerConfig     `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	GatewayConfig    GatewayConfig    `mapstructure:"gatewayConfig" json:"gatewayConfig" yaml:"gatewayConfig"`
	StorageConfig    StorageConfig    `mapstructure:"storageConfig" json:"storageConfig" yaml:"storageConfig"`
	MySQLConfig      MySQLConfig      `mapstructure:"mySQLConfig" json:"mySQLConfig" yaml:"mySQLConfig"`
	SQLiteConfig     SQLiteConfig     `mapstructure:"sqliteConfig" json:"sqliteConfig" yaml:"sqliteConfig"`
	GormLogConfig    GormLogConfig    `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	RedisConfig      RedisConfig      `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	JWTConfig        JWTConfig        `mapstructure:"jwtConfig" json:"jwtConfig" yaml:"jwtConfig"`
	MockServerConfig MockServerConfig `mapstructure:"mockServerConfig" json:"mockServerConfig" yaml:"mockServerConfig"`
}

// Default 返回一份可直接运行的默认配置：
// 线上后端地址、本地 SQLite 令牌存储、info 级别日志。
func Default() CodefixConfig {
	return CodefixConfig{
		ZapConfig: ZapConfig{
			Level:    "info",
			Encoding: "console",
		},
		GatewayConfig: GatewayConfig{
			BaseURL:        "https://ai.wtc.edu.cn/api",
			OnNullData:     "pass-through",
			AuthPolicy:     "strict",
			FallbackPrefix: "请求失败",
		},
		StorageConfig: StorageConfig{
			Driver: "sqlite",
			ConnectRetry: ConnectRetryConfig{
				Attempts: 5,
				Interval: 2 * time.Second,
			},
		},
		SQLiteConfig: SQLiteConfig{
			Path: "./db/codefix.db",
		},
		GormLogConfig: GormLogConfig{
			Level:         "warn",
			SlowThreshold: 200,
		},
		JWTConfig: JWTConfig{
			SecretKey: "codefix-mock-secret",
			Issuer:    "codefix-mock",
		},
		MockServerConfig: MockServerConfig{
			Port:           "8090",
			PayWechatOn:    true,
			PayAliOn:       true,
			SmsCodeForTest: "123456",
		},
	}
}
