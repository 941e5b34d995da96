package entities

import (
	"time"
)

// KVEntry 持久化键值存储中的一条记录（SQLite / MySQL 共用）。
// - 客户端只用它保存登录令牌，但表结构保持通用。
type KVEntry struct {
	// 键，主键
	Key string `gorm:"type:varchar(128);primaryKey;column:k"`

	// 值，令牌等字符串
	Value string `gorm:"type:text;column:v"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
