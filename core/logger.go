package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Xushengqwer/codefix_portal/config"
)

// ZapLogger 是对 *zap.Logger 的轻量封装，项目内所有组件都依赖它而不是直接依赖 zap。
// - 统一的 Debug/Info/Warn/Error/Fatal 方法，字段使用 zap.Field。
// - 需要原生 logger 的地方（例如 gin 中间件）通过 Logger() 获取。
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger 根据配置构建日志记录器。
// - Level 为空时默认为 info；Encoding 为空时默认为 json。
func NewZapLogger(cfg config.ZapConfig) (*ZapLogger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	atomicLevel, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 '%s': %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = atomicLevel
	zapCfg.EncoderConfig.TimeKey = "time"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	if cfg.Encoding == "console" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if cfg.OutputPath != "" {
		zapCfg.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("构建 zap 日志记录器失败: %w", err)
	}
	return &ZapLogger{logger: logger}, nil
}

// NewNopLogger 返回一个丢弃所有输出的日志记录器，测试中使用。
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// WrapZap 用现成的 *zap.Logger 构造 ZapLogger。
func WrapZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

func (l *ZapLogger) Debug(msg string, fields ...zap.Field) { l.logger.Debug(msg, fields...) }
func (l *ZapLogger) Info(msg string, fields ...zap.Field)  { l.logger.Info(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...zap.Field)  { l.logger.Warn(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...zap.Field) { l.logger.Error(msg, fields...) }
func (l *ZapLogger) Fatal(msg string, fields ...zap.Field) { l.logger.Fatal(msg, fields...) }

// With 返回携带固定字段的子日志记录器。
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{logger: l.logger.With(fields...)}
}

// Logger 返回底层的 *zap.Logger。
func (l *ZapLogger) Logger() *zap.Logger {
	return l.logger
}

// Sync 刷新缓冲的日志。
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
