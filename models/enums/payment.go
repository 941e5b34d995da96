package enums

// PayPlatform 支付平台
type PayPlatform string

const (
	PlatformWechat PayPlatform = "wechat"
	PlatformAlipay PayPlatform = "alipay"
)

// PayChannel 下单时传给后端的支付渠道
type PayChannel string

const (
	ChannelWxpay  PayChannel = "wxpay"
	ChannelAlipay PayChannel = "alipay"
)

// ChannelFor 返回支付平台对应的下单渠道。
func ChannelFor(p PayPlatform) PayChannel {
	if p == PlatformWechat {
		return ChannelWxpay
	}
	return ChannelAlipay
}

// PayType 支付方式选项
type PayType struct {
	Label      string      `json:"label"`
	Value      PayChannel  `json:"value"`
	PayChannel PayPlatform `json:"payChannel"`
}

// OrderStatus 订单状态
type OrderStatus int

const (
	OrderUnpaid OrderStatus = 0 // 待支付
	OrderPaid   OrderStatus = 1 // 已支付
)

// PlatformSwitchOn 后端配置中表示“启用”的值
const PlatformSwitchOn = 1
