package config

// JWTConfig 定义 mock 后端签发令牌所用的配置。
// - 客户端本身从不校验令牌，只在展示时解析过期时间。
type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"` // 用于签名Access Token的密钥
	Issuer    string `mapstructure:"issuer" yaml:"issuer"`         // JWT的签发者
}
