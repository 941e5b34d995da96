package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/constants"
)

// TokenReader 网关只需要读取令牌，从不写入。
type TokenReader interface {
	// GetToken 返回当前保存的令牌；没有令牌时返回空串和 nil。
	GetToken(ctx context.Context) (string, error)
}

// TokenStore 令牌仓库：登录成功后写入，登出时清除。
type TokenStore interface {
	TokenReader
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// tokenStore 是 TokenStore 基于 Storage 的实现，令牌保存在固定键 constants.TokenKey 下。
type tokenStore struct {
	storage Storage
}

// NewTokenStore 创建令牌仓库。
func NewTokenStore(storage Storage) TokenStore {
	return &tokenStore{storage: storage}
}

func (s *tokenStore) GetToken(ctx context.Context) (string, error) {
	token, err := s.storage.Get(ctx, constants.TokenKey)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("tokenStore.GetToken: 读取令牌失败: %w", err)
	}
	return token, nil
}

func (s *tokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.storage.Set(ctx, constants.TokenKey, token); err != nil {
		return fmt.Errorf("tokenStore.SetToken: 保存令牌失败: %w", err)
	}
	return nil
}

func (s *tokenStore) ClearToken(ctx context.Context) error {
	if err := s.storage.Delete(ctx, constants.TokenKey); err != nil {
		return fmt.Errorf("tokenStore.ClearToken: 清除令牌失败: %w", err)
	}
	return nil
}
