package vo

// WechatLoginResult 扫码登录轮询结果
// - Token 非空: 该微信已绑定用户，登录完成
// - OpenID 非空而 Token 为空: 需要先绑定手机号
// - 两者皆空: 用户尚未扫码/确认
type WechatLoginResult struct {
	Token  string `json:"token,omitempty"`
	OpenID string `json:"openId,omitempty"`
}

// Done 是否已经拿到可以继续流程的结果。
func (r WechatLoginResult) Done() bool {
	return r.Token != "" || r.OpenID != ""
}
