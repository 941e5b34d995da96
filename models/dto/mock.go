package dto

// MockScanRequest 模拟用户在手机上扫码确认（仅 mock 后端）
type MockScanRequest struct {
	SceneStr string `json:"sceneStr" binding:"required"`
	OpenID   string `json:"openId"` // 为空时由 mock 后端生成
}

// MockPayRequest 模拟第三方支付回调（仅 mock 后端）
type MockPayRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}
