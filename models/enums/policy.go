package enums

import "fmt"

// NullDataPolicy 成功响应中 data 为 null 时网关的处理策略
type NullDataPolicy string

const (
	NullDataReject      NullDataPolicy = "reject"       // 视为故障，返回 commonerrors.ErrNullData
	NullDataPassThrough NullDataPolicy = "pass-through" // 原样返回，由调用方自行判断
)

// NullDataPolicyFromString 解析配置中的策略字符串，空串视为 pass-through。
func NullDataPolicyFromString(s string) (NullDataPolicy, error) {
	switch NullDataPolicy(s) {
	case "", NullDataPassThrough:
		return NullDataPassThrough, nil
	case NullDataReject:
		return NullDataReject, nil
	default:
		return "", fmt.Errorf("未知的空数据策略: %q", s)
	}
}

// AuthPolicy 需要登录态的接口在本地没有令牌时的处理策略
type AuthPolicy string

const (
	AuthStrict  AuthPolicy = "strict"  // 不发请求，直接返回 commonerrors.ErrNoToken
	AuthLenient AuthPolicy = "lenient" // 照常发请求，只是不带 Authorization 头
)

// AuthPolicyFromString 解析配置中的策略字符串，空串视为 strict。
func AuthPolicyFromString(s string) (AuthPolicy, error) {
	switch AuthPolicy(s) {
	case "", AuthStrict:
		return AuthStrict, nil
	case AuthLenient:
		return AuthLenient, nil
	default:
		return "", fmt.Errorf("未知的鉴权策略: %q", s)
	}
}
