// Package state 保存客户端的运行时状态：用户信息与支付/订单状态。
//
// 每个 Store 都是显式创建、显式传递的对象，不存在包级单例。
// 状态以不可变快照的形式对外提供：每次更新整体替换快照并把版本号加一，
// 读取方拿到的是副本，修改副本不会影响 Store。
package state

import (
	"sync"
	"time"

	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/utils"
)

// UserState 用户状态快照，两个字段都可能为 nil（未登录或已登出）。
type UserState struct {
	UserInfo    *vo.UserInfo
	UserBalance *vo.UserBalance
	Version     uint64
}

// LoggedIn 是否已加载用户信息。
func (s UserState) LoggedIn() bool {
	return s.UserInfo != nil
}

// CodeFixMemberAt 判断在 now 时刻代码纠错会员是否有效：
// codeExpirationDate 存在、可解析且晚于 now。
func (s UserState) CodeFixMemberAt(now time.Time) bool {
	if s.UserBalance == nil || s.UserBalance.CodeExpirationDate == nil {
		return false
	}
	expireAt, ok := utils.ParseBackendTime(*s.UserBalance.CodeExpirationDate)
	if !ok {
		return false
	}
	return expireAt.After(now)
}

// UserStore 用户状态容器，并发安全。
type UserStore struct {
	mu  sync.RWMutex
	cur UserState
}

// NewUserStore 创建一个空的用户状态容器（版本号为 0）。
func NewUserStore() *UserStore {
	return &UserStore{}
}

// Snapshot 返回当前状态的副本。
func (s *UserStore) Snapshot() UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.clone()
}

// Update 整体替换用户信息与余额，返回新的快照。
func (s *UserStore) Update(info vo.UserInfo, balance vo.UserBalance) UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = UserState{
		UserInfo:    &info,
		UserBalance: cloneBalance(&balance),
		Version:     s.cur.Version + 1,
	}
	return s.cur.clone()
}

// Clear 整体重置为未登录状态，返回新的快照。
func (s *UserStore) Clear() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = UserState{Version: s.cur.Version + 1}
	return s.cur.clone()
}

func (s UserState) clone() UserState {
	out := UserState{Version: s.Version}
	if s.UserInfo != nil {
		info := *s.UserInfo
		out.UserInfo = &info
	}
	out.UserBalance = cloneBalance(s.UserBalance)
	return out
}

// cloneBalance 深拷贝余额，指针字段也复制一份。
func cloneBalance(b *vo.UserBalance) *vo.UserBalance {
	if b == nil {
		return nil
	}
	out := *b
	out.UseModel3Count = cloneInt(b.UseModel3Count)
	out.UseModel4Count = cloneInt(b.UseModel4Count)
	out.UseModel3Token = cloneInt(b.UseModel3Token)
	out.UseModel4Token = cloneInt(b.UseModel4Token)
	out.UseDrawMjToken = cloneInt(b.UseDrawMjToken)
	out.ExpirationTime = cloneString(b.ExpirationTime)
	out.VipExpirationDate = cloneString(b.VipExpirationDate)
	out.SvipExpirationDate = cloneString(b.SvipExpirationDate)
	out.CodeExpirationDate = cloneString(b.CodeExpirationDate)
	return &out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
