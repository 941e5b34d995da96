package memory

import (
	"context"
	"sync"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
)

// KVRepo 进程内的键值存储，进程退出即丢失。用于测试和 --storage=memory。
type KVRepo struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVRepo 创建一个空的内存存储。
func NewKVRepo() *KVRepo {
	return &KVRepo{data: make(map[string]string)}
}

func (r *KVRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return "", commonerrors.ErrRepoNotFound
	}
	return v, nil
}

func (r *KVRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	r.data[key] = value
	r.mu.Unlock()
	return nil
}

func (r *KVRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}
