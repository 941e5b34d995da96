// Package commonerrors 汇总项目内跨层共享的哨兵错误。
// 调用方使用 errors.Is 判断错误类别，各层用 fmt.Errorf("...: %w", err) 包装上下文。
package commonerrors

import "errors"

var (
	// ErrSystemError 表示不应暴露细节给用户的系统内部错误。
	ErrSystemError = errors.New("系统内部错误，请稍后重试")

	// ErrRepoNotFound 表示存储层未找到对应记录。
	ErrRepoNotFound = errors.New("记录不存在")

	// ErrNoToken 表示需要登录态的接口在本地未找到令牌（严格鉴权策略下不会发出请求）。
	ErrNoToken = errors.New("未找到登录令牌")

	// ErrNullData 表示后端声明成功但 data 为 null（reject 策略下返回）。
	ErrNullData = errors.New("响应数据为空")

	// ErrInvalidPhone 表示手机号格式不合法，请求不会发出。
	ErrInvalidPhone = errors.New("手机号格式不正确")

	// ErrInvalidParam 表示请求参数未通过客户端校验。
	ErrInvalidParam = errors.New("请求参数无效")

	// ErrEmptyToken 表示登录接口声明成功却没有返回令牌。
	ErrEmptyToken = errors.New("登录成功但未返回令牌")

	// ErrPlatformDisabled 表示所选支付平台在后端配置中未启用。
	ErrPlatformDisabled = errors.New("该支付方式暂未开放")
)
