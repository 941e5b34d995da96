package utils

import (
	"errors"
	"fmt"
	"regexp" // 正则表达式包
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"       // Gin 框架的数据绑定包
	"github.com/go-playground/validator/v10" // 强大的数据校验库

	"github.com/Xushengqwer/codefix_portal/commonerrors"
)

// phoneNumberRegex 预编译的中国大陆手机号正则表达式。
// 规则：以1开头，第二位是3到9之间的数字，后面跟9个数字。
var phoneNumberRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)

// IsValidPhone 校验是否为中国大陆手机号。
func IsValidPhone(phone string) bool {
	return phoneNumberRegex.MatchString(phone)
}

// ValidateChinesePhone 供 validator 使用的手机号校验函数。
func ValidateChinesePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

// customValidations 自定义校验标签与校验函数的映射，客户端与 mock 后端共用。
var customValidations = map[string]validator.Func{
	"ChinesePhone": ValidateChinesePhone,
}

var (
	clientValidator     *validator.Validate
	clientValidatorOnce sync.Once
)

// ValidateParams 在发送请求前校验参数结构体。
// - 与 gin 一样读取 `binding` 标签，客户端与 mock 后端使用同一套 DTO 标签。
// - 手机号不合法时返回 commonerrors.ErrInvalidPhone，其余校验失败返回 commonerrors.ErrInvalidParam。
func ValidateParams(params interface{}) error {
	clientValidatorOnce.Do(func() {
		v := validator.New()
		v.SetTagName("binding")
		for tag, fn := range customValidations {
			// 标签名固定且合法，注册不会失败
			_ = v.RegisterValidation(tag, fn)
		}
		clientValidator = v
	})

	err := clientValidator.Struct(params)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", commonerrors.ErrInvalidParam, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "ChinesePhone" {
			return fmt.Errorf("%w: %s", commonerrors.ErrInvalidPhone, fe.Value())
		}
		fields = append(fields, fe.Field()+"("+fe.Tag()+")")
	}
	return fmt.Errorf("%w: %s", commonerrors.ErrInvalidParam, strings.Join(fields, ", "))
}

// RegisterCustomValidators 将自定义校验函数注册到 Gin 的 validator 引擎中（mock 后端启动时调用）。
func RegisterCustomValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		for tag, validation := range customValidations {
			if err := v.RegisterValidation(tag, validation); err != nil {
				return fmt.Errorf("注册验证器 '%s' 失败: %w", tag, err)
			}
		}
	}
	return nil
}
