package dependencies

import (
	"fmt"
	"io"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/repository"
	"github.com/Xushengqwer/codefix_portal/repository/database"
	"github.com/Xushengqwer/codefix_portal/repository/memory"
	redisrepo "github.com/Xushengqwer/codefix_portal/repository/redis"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewStorage 按 StorageConfig.Driver 创建令牌使用的键值存储。
// 返回的 io.Closer 用于在退出时释放底层连接。
func NewStorage(cfg *config.CodefixConfig, logger *core.ZapLogger) (repository.Storage, io.Closer, error) {
	switch cfg.StorageConfig.Driver {
	case "", "memory":
		return memory.NewKVRepo(), closerFunc(func() error { return nil }), nil
	case "sqlite", "mysql":
		db, err := InitDatabase(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("无法获取数据库对象: %w", err)
		}
		return database.NewKVRepository(db), sqlDB, nil
	case "redis":
		client, err := InitRedis(&cfg.RedisConfig, cfg.StorageConfig.ConnectRetry, logger)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewKVRepo(client, cfg.StorageConfig.KeyPrefix), client, nil
	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %q", cfg.StorageConfig.Driver)
	}
}
