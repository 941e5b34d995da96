package main

import (
	"os"
	"strconv"

	"github.com/Xushengqwer/codefix_portal/config"
)

// applyEnvOverrides 用环境变量覆盖关键配置，返回被覆盖的字段名（不含取值，避免泄露密钥）。
func applyEnvOverrides(c *config.CodefixConfig) []string {
	var overridden []string
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			overridden = append(overridden, field)
		}
	}

	// Log
	setString("ZAPCONFIG_LEVEL", "ZapConfig.Level", &c.ZapConfig.Level)
	setString("GORMLOGCONFIG_LEVEL", "GormLogConfig.Level", &c.GormLogConfig.Level)
	// Tracer
	if enabled, err := strconv.ParseBool(os.Getenv("TRACERCONFIG_ENABLED")); err == nil {
		c.TracerConfig.Enabled = enabled
		overridden = append(overridden, "TracerConfig.Enabled")
	}
	setString("TRACERCONFIG_ENDPOINT", "TracerConfig.Endpoint", &c.TracerConfig.Endpoint)
	// Gateway
	setString("GATEWAYCONFIG_BASE_URL", "GatewayConfig.BaseURL", &c.GatewayConfig.BaseURL)
	setString("GATEWAYCONFIG_AUTH_POLICY", "GatewayConfig.AuthPolicy", &c.GatewayConfig.AuthPolicy)
	setString("GATEWAYCONFIG_ON_NULL_DATA", "GatewayConfig.OnNullData", &c.GatewayConfig.OnNullData)
	// Storage
	setString("STORAGECONFIG_DRIVER", "StorageConfig.Driver", &c.StorageConfig.Driver)
	setString("SQLITECONFIG_PATH", "SQLiteConfig.Path", &c.SQLiteConfig.Path)
	setString("MYSQLCONFIG_DSN", "MySQLConfig.DSN", &c.MySQLConfig.DSN)
	setString("REDISCONFIG_ADDRESS", "RedisConfig.Address", &c.RedisConfig.Address)
	setString("REDISCONFIG_PASSWORD", "RedisConfig.Password", &c.RedisConfig.Password)
	// Mock server
	setString("JWTCONFIG_SECRET_KEY", "JWTConfig.SecretKey", &c.JWTConfig.SecretKey)
	setString("MOCKSERVERCONFIG_PORT", "MockServerConfig.Port", &c.MockServerConfig.Port)
	return overridden
}
