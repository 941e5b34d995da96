package dto

// CorrectionRequest 代码纠错请求
// - IsAdvanced 与 Language 只在客户端决定走哪个接口，不会发送给后端。
type CorrectionRequest struct {
	Code       string `json:"code" binding:"required"`
	AddInfo    string `json:"add_info"`
	IsAdvanced bool   `json:"-"`
	Language   string `json:"-"`
}
