package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/models/entities"
)

// KVRepository 是 repository.Storage 基于 GORM 的实现，SQLite 与 MySQL 共用。
// - 表结构见 entities.KVEntry，由 dependencies.InitDatabase 自动迁移。
type KVRepository struct {
	db *gorm.DB // db 是 GORM 数据库连接实例
}

// NewKVRepository 创建一个新的 KVRepository 实例。
func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get 根据键查询值。
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var entry entities.KVEntry
	err := r.db.WithContext(ctx).Where("k = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", commonerrors.ErrRepoNotFound
		}
		return "", fmt.Errorf("kvRepo.Get: 查询键值失败 (key: %s): %w", key, err)
	}
	return entry.Value, nil
}

// Set 写入键值，键已存在时覆盖（upsert）。
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	entry := entities.KVEntry{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("kvRepo.Set: 写入键值失败 (key: %s): %w", key, err)
	}
	return nil
}

// Delete 删除键；记录不存在时 RowsAffected 为 0，不视为错误。
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("k = ?", key).Delete(&entities.KVEntry{}).Error; err != nil {
		return fmt.Errorf("kvRepo.Delete: 删除键值失败 (key: %s): %w", key, err)
	}
	return nil
}
