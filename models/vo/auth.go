package vo

// CaptchaResult 图形验证码
type CaptchaResult struct {
	SvgCode string `json:"svgCode"` // svg格式的验证码图片
	Code    string `json:"code"`    // 验证码ID
}

// UserInfo 用户基础信息
type UserInfo struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Avatar          string `json:"avatar"`
	Sign            string `json:"sign"`
	InviteCode      string `json:"inviteCode"`
	Role            string `json:"role"`
	ConsecutiveDays int    `json:"consecutiveDays"`
	IsBindWx        bool   `json:"isBindWx"`
	UsePermission   int    `json:"usePermission"`
}

// UserBalance 用户余额与会员信息，指针字段对应后端可能返回 null 的值
type UserBalance struct {
	Model3Count        int     `json:"model3Count"`
	Model4Count        int     `json:"model4Count"`
	DrawMjCount        int     `json:"drawMjCount"`
	PackageID          int     `json:"packageId"`
	MemberModel3Count  int     `json:"memberModel3Count"`
	MemberModel4Count  int     `json:"memberModel4Count"`
	MemberDrawMjCount  int     `json:"memberDrawMjCount"`
	UseModel3Count     *int    `json:"useModel3Count"`
	UseModel4Count     *int    `json:"useModel4Count"`
	UseModel3Token     *int    `json:"useModel3Token"`
	UseModel4Token     *int    `json:"useModel4Token"`
	UseDrawMjToken     *int    `json:"useDrawMjToken"`
	ExpirationTime     *string `json:"expirationTime"`
	VipExpirationDate  *string `json:"vipExpirationDate"`
	SvipExpirationDate *string `json:"svipExpirationDate"`
	SumModel3Count     int     `json:"sumModel3Count"`
	SumModel4Count     int     `json:"sumModel4Count"`
	SumDrawMjCount     int     `json:"sumDrawMjCount"`
	CodeExpirationDate *string `json:"codeExpirationDate"`
}

// GetInfoResponse 获取用户信息接口的 data
type GetInfoResponse struct {
	UserInfo    UserInfo    `json:"userInfo"`
	UserBalance UserBalance `json:"userBalance"`
}
