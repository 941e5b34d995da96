package redis

import (
	"context"
	"errors"
	"fmt" // 引入 fmt 包用于错误包装

	// 使用 go-redis/v9
	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
)

// KVRepo 是 repository.Storage 基于 go-redis/v9 的实现。
// - 键不设过期时间，令牌的生命周期完全由登录/登出决定。
type KVRepo struct {
	client *redis.Client // client 是 Redis v9 客户端实例
	prefix string        // prefix 键名前缀，例如 "codefix:"
}

// NewKVRepo 创建一个新的 KVRepo 实例。
func NewKVRepo(client *redis.Client, prefix string) *KVRepo {
	return &KVRepo{client: client, prefix: prefix}
}

// buildKey 拼接键名前缀。
func (r *KVRepo) buildKey(key string) string {
	return r.prefix + key
}

// Get 执行 GET 命令。
func (r *KVRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.buildKey(key)).Result()
	if err != nil {
		// redis.Nil 表示键不存在
		if errors.Is(err, redis.Nil) {
			return "", commonerrors.ErrRepoNotFound
		}
		return "", fmt.Errorf("kvRepo.Get: 读取失败 (key: %s): %w", key, err)
	}
	return val, nil
}

// Set 执行不带过期时间的 SET 命令。
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.buildKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kvRepo.Set: 写入失败 (key: %s): %w", key, err)
	}
	return nil
}

// Delete 执行 DEL 命令；键不存在时 DEL 返回 0，Err() 为 nil。
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("kvRepo.Delete: 删除失败 (key: %s): %w", key, err)
	}
	return nil
}
