package core

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfig 从指定的 YAML 文件加载配置到 cfg（必须是指针）。
// - 文件不存在时返回错误，由调用方决定是否退回默认配置。
// - 字段映射使用 mapstructure 标签，time.Duration 支持 "10s" 这类写法。
func LoadConfig(path string, cfg interface{}) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("配置文件不存在 (%s): %w", path, err)
		}
		return fmt.Errorf("读取配置文件失败 (%s): %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置文件失败 (%s): %w", path, err)
	}
	return nil
}
