package config

import "time"

// StorageConfig 选择持久化键值存储（保存登录令牌）的后端。
// - Driver 可选: "memory", "sqlite", "mysql", "redis"
type StorageConfig struct {
	Driver string `mapstructure:"driver" json:"driver" yaml:"driver"`
	// KeyPrefix 仅对 redis 生效，避免与同库中的其他数据冲突。
	KeyPrefix string `mapstructure:"key_prefix" json:"key_prefix" yaml:"key_prefix"`
	// ConnectRetry mysql 与 redis 启动时的连接重试策略。
	ConnectRetry ConnectRetryConfig `mapstructure:"connect_retry" json:"connect_retry" yaml:"connect_retry"`
}

// ConnectRetryConfig 连接失败时的重试次数与间隔，Attempts <= 0 时只尝试一次。
type ConnectRetryConfig struct {
	Attempts int           `mapstructure:"attempts" json:"attempts" yaml:"attempts"`
	Interval time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
}

// MySQLConfig 定义MySQL连接的相关配置
type MySQLConfig struct {
	DSN         string `mapstructure:"dsn" yaml:"dsn"`                     // MySQL DSN (Data Source Name)，例如 "user:password@tcp(host:port)/database?charset=utf8mb4&parseTime=True&loc=Local"
	MaxOpenConn int    `mapstructure:"max_open_conn" yaml:"max_open_conn"` // 最大打开连接数
	MaxIdleConn int    `mapstructure:"max_idle_conn" yaml:"max_idle_conn"` // 最大空闲连接数
}

// SQLiteConfig 定义本地 SQLite 文件的位置，相当于浏览器里的 localStorage。
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// GormLogConfig 定义 GORM 日志适配器的配置。
type GormLogConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // silent, error, warn, info
	SlowThreshold int    `mapstructure:"slow_threshold" yaml:"slow_threshold"` // 慢查询阈值（毫秒）
}
