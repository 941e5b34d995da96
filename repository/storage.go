// Package repository 定义持久化键值存储的抽象，以及建立在其上的令牌仓库。
// 具体后端位于子包: memory（进程内）、database（SQLite/MySQL，经 GORM）、redis。
package repository

import (
	"context"
)

// Storage 是持久化键值存储的最小接口，相当于浏览器的 localStorage。
type Storage interface {
	// Get 返回 key 对应的值；不存在时返回 commonerrors.ErrRepoNotFound。
	Get(ctx context.Context, key string) (string, error)

	// Set 写入（覆盖）key 对应的值。
	Set(ctx context.Context, key, value string) error

	// Delete 删除 key；key 本就不存在时不返回错误。
	Delete(ctx context.Context, key string) error
}
