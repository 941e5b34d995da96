package dependencies

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
)

const redisPingTimeout = 5 * time.Second

// InitRedis 创建 Redis 客户端并用 PING 确认可用，失败时按 retry 重试。
func InitRedis(cfg *config.RedisConfig, retry config.ConnectRetryConfig, logger *core.ZapLogger) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}
	client := redis.NewClient(opts)

	err := connectWithRetry("redis "+opts.Addr, retry, logger, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Redis 已连接", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
