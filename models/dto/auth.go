package dto

// CaptchaRequest 获取图形验证码的参数
type CaptchaRequest struct {
	Color string `json:"color"` // 验证码前景色，例如 "#fff"
}

// SendSmsParams 发送短信验证码参数
type SendSmsParams struct {
	Phone       string  `json:"phone" binding:"required,ChinesePhone"` // 手机号
	CaptchaCode string  `json:"captchaCode" binding:"required"`        // 图形验证码
	CaptchaID   *string `json:"captchaId"`                             // 验证码ID，允许为 null
}

// LoginParams 手机号登录参数
type LoginParams struct {
	Phone       string  `json:"phone" binding:"required,ChinesePhone"` // 手机号
	PhoneCode   string  `json:"phoneCode" binding:"required"`          // 短信验证码
	CaptchaCode string  `json:"captchaCode"`                           // 图形验证码
	CaptchaID   *string `json:"captchaId"`                             // 验证码ID，允许为 null
}

// BindPhoneParams 微信扫码后绑定手机号并创建用户的参数
type BindPhoneParams struct {
	Phone     string `json:"phone" binding:"required,ChinesePhone"` // 手机号
	PhoneCode string `json:"phoneCode" binding:"required"`          // 短信验证码
	OpenID    string `json:"openId" binding:"required"`             // 微信 openId
}
