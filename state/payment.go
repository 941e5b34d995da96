package state

import (
	"sync"

	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
)

// GlobalConfig 服务端下发的支付开关，值为 1 表示启用。
type GlobalConfig struct {
	PayWechatStatus int `json:"payWechatStatus"`
	PayAliStatus    int `json:"payAliStatus"`
}

// ConfigPatch 局部更新支付开关，nil 字段保持不变。
type ConfigPatch struct {
	PayWechatStatus *int
	PayAliStatus    *int
}

// PaymentState 支付/订单状态快照。
type PaymentState struct {
	PayDialog    bool
	GoodsDialog  bool
	OrderInfo    vo.OrderInfo
	GlobalConfig GlobalConfig
	Version      uint64
}

// PayPlatforms 返回已启用的支付平台：支付宝在前、微信在后；都未启用时返回 nil。
func (s PaymentState) PayPlatforms() []enums.PayPlatform {
	var platforms []enums.PayPlatform
	if s.GlobalConfig.PayAliStatus == enums.PlatformSwitchOn {
		platforms = append(platforms, enums.PlatformAlipay)
	}
	if s.GlobalConfig.PayWechatStatus == enums.PlatformSwitchOn {
		platforms = append(platforms, enums.PlatformWechat)
	}
	return platforms
}

// PaymentStore 支付状态容器，并发安全。
type PaymentStore struct {
	mu  sync.RWMutex
	cur PaymentState
}

// NewPaymentStore 创建支付状态容器，默认两个支付平台都启用。
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{cur: PaymentState{
		GlobalConfig: GlobalConfig{
			PayWechatStatus: enums.PlatformSwitchOn,
			PayAliStatus:    enums.PlatformSwitchOn,
		},
	}}
}

// Snapshot 返回当前状态（值类型，本身即副本）。
func (s *PaymentStore) Snapshot() PaymentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// SetPayDialog 设置支付弹窗是否显示。
func (s *PaymentStore) SetPayDialog(show bool) PaymentState {
	return s.apply(func(st *PaymentState) { st.PayDialog = show })
}

// SetGoodsDialog 设置套餐弹窗是否显示。
func (s *PaymentStore) SetGoodsDialog(show bool) PaymentState {
	return s.apply(func(st *PaymentState) { st.GoodsDialog = show })
}

// SetOrderInfo 整体替换当前订单信息。
func (s *PaymentStore) SetOrderInfo(info vo.OrderInfo) PaymentState {
	return s.apply(func(st *PaymentState) { st.OrderInfo = info })
}

// UpdateConfig 合并局部配置。
func (s *PaymentStore) UpdateConfig(patch ConfigPatch) PaymentState {
	return s.apply(func(st *PaymentState) {
		if patch.PayWechatStatus != nil {
			st.GlobalConfig.PayWechatStatus = *patch.PayWechatStatus
		}
		if patch.PayAliStatus != nil {
			st.GlobalConfig.PayAliStatus = *patch.PayAliStatus
		}
	})
}

// apply 在副本上执行修改后整体替换，版本号加一。
func (s *PaymentStore) apply(mutate func(*PaymentState)) PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	mutate(&next)
	next.Version = s.cur.Version + 1
	s.cur = next
	return next
}
