package dto

// OrderBuyParams 创建订单参数
type OrderBuyParams struct {
	GoodsID int    `json:"goodsId" binding:"required"`
	PayType string `json:"payType" binding:"required,oneof=wxpay alipay"`
	PayEnv  string `json:"payEnv,omitempty"`
}
