package dependencies

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/models/entities"
)

// InitDatabase 按存储驱动打开 SQLite 文件或 MySQL 连接，并迁移键值表。
// - sqlite: 单文件，目录不存在时自动创建，不重试。
// - mysql: 使用 DSN 连接，失败时按 StorageConfig.ConnectRetry 重试。
func InitDatabase(cfg *config.CodefixConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: core.NewGormLogger(logger, cfg.GormLogConfig),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.StorageConfig.Driver {
	case "sqlite":
		db, err = openSQLite(cfg.SQLiteConfig, gormConfig, logger)
	case "mysql":
		db, err = openMySQL(cfg.MySQLConfig, cfg.StorageConfig.ConnectRetry, gormConfig, logger)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.StorageConfig.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&entities.KVEntry{}); err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.Info("数据库已就绪并完成自动迁移", zap.String("driver", cfg.StorageConfig.Driver))
	return db, nil
}

func openSQLite(cfg config.SQLiteConfig, gormConfig *gorm.Config, logger *core.ZapLogger) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("SQLite 路径未配置")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建 SQLite 目录失败: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	if err != nil {
		logger.Error("无法打开 SQLite 数据库", zap.String("path", cfg.Path), zap.Error(err))
		return nil, fmt.Errorf("无法打开 SQLite 数据库 (%s): %w", cfg.Path, err)
	}
	return db, nil
}

func openMySQL(cfg config.MySQLConfig, retry config.ConnectRetryConfig, gormConfig *gorm.Config, logger *core.ZapLogger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("MySQL DSN 未配置")
	}
	dsn := previewDSN(cfg.DSN)
	logger.Info("正在连接 MySQL", zap.String("dsn", dsn))

	var db *gorm.DB
	err := connectWithRetry("mysql "+dsn, retry, logger, func() error {
		opened, err := gorm.Open(mysql.Open(cfg.DSN), gormConfig)
		if err != nil {
			return err
		}
		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = opened
		return nil
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// previewDSN 返回隐藏了密码的 DSN，仅用于日志。
func previewDSN(dsn string) string {
	atIndex := strings.LastIndex(dsn, "@")
	if atIndex == -1 {
		return dsn
	}
	colon := strings.Index(dsn[:atIndex], ":")
	if colon == -1 {
		return dsn
	}
	return dsn[:colon+1] + "****" + dsn[atIndex:]
}
