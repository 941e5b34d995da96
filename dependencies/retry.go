package dependencies

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
)

// connectWithRetry 反复调用 connect 直到成功或用完重试次数，返回最后一次的错误。
// 最后一次失败后不再等待。
func connectWithRetry(target string, retry config.ConnectRetryConfig, logger *core.ZapLogger, connect func() error) error {
	attempts := retry.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = connect(); err == nil {
			if i > 1 {
				logger.Info("重试后连接成功", zap.String("target", target), zap.Int("attempt", i))
			}
			return nil
		}
		logger.Warn("连接失败",
			zap.String("target", target),
			zap.Int("attempt", i),
			zap.Int("maxAttempts", attempts),
			zap.Error(err),
		)
		if i < attempts && retry.Interval > 0 {
			time.Sleep(retry.Interval)
		}
	}
	return fmt.Errorf("连接 %s 失败（已尝试 %d 次）: %w", target, attempts, err)
}
