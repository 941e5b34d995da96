package config

// MockServerConfig 定义本地 mock 后端的配置，供开发联调与端到端测试使用。
type MockServerConfig struct {
	Port           string `mapstructure:"port" json:"port" yaml:"port"`
	RequestTimeout int    `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"` // 秒
	PayWechatOn    bool   `mapstructure:"pay_wechat_on" json:"pay_wechat_on" yaml:"pay_wechat_on"`
	PayAliOn       bool   `mapstructure:"pay_ali_on" json:"pay_ali_on" yaml:"pay_ali_on"`

	// SmsCodeForTest 非空时所有短信验证码固定为该值，便于本地登录。
	SmsCodeForTest string `mapstructure:"sms_code_for_test" json:"sms_code_for_test" yaml:"sms_code_for_test"`

	// AutoScanOpenID 非空时新生成的场景值直接视为被该 openId 扫码确认，无需调用 /mock/scan。
	AutoScanOpenID string `mapstructure:"auto_scan_open_id" json:"auto_scan_open_id" yaml:"auto_scan_open_id"`
}
