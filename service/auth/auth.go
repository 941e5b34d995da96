package auth

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/utils"
)

// 后端接口路径，均相对于网关的 BaseURL。
const (
	PathCaptcha   = "auth/captcha"
	PathSendSms   = "auth/sendPhoneCode"
	PathLogin     = "auth/loginByPhoneCapter"
	PathGetInfo   = "auth/getInfo"
	PathBindPhone = "auth/createUserBybindOpenid"
)

// AuthService 定义了登录、验证码与用户信息相关的后端调用。
type AuthService interface {
	// FetchCaptcha 获取图形验证码（svg + 验证码ID）。
	FetchCaptcha(ctx context.Context, params dto.CaptchaRequest) (*gateway.Envelope[vo.CaptchaResult], error)

	// SendSms 发送短信验证码。
	// - 手机号格式不合法时直接返回 commonerrors.ErrInvalidPhone，不发请求。
	SendSms(ctx context.Context, params dto.SendSmsParams) (*gateway.Envelope[any], error)

	// LoginByPhone 手机号 + 短信验证码登录，成功时 data 为令牌。
	// - 后端声明成功但 data 为 null 时，data 按空字符串处理。
	LoginByPhone(ctx context.Context, params dto.LoginParams) (*gateway.Envelope[string], error)

	// GetInfo 获取当前登录用户的信息与余额。
	// - 需要令牌；后端声明成功却没有 data 时返回 commonerrors.ErrNullData。
	GetInfo(ctx context.Context) (*gateway.Envelope[vo.GetInfoResponse], error)

	// BindPhone 微信扫码后绑定手机号并创建用户，成功时 data 为令牌。
	BindPhone(ctx context.Context, params dto.BindPhoneParams) (*gateway.Envelope[string], error)
}

type authService struct {
	gw     *gateway.Gateway
	logger *core.ZapLogger
}

// NewAuthService 创建 AuthService。
func NewAuthService(gw *gateway.Gateway, logger *core.ZapLogger) AuthService {
	return &authService{gw: gw, logger: logger}
}

func (s *authService) FetchCaptcha(ctx context.Context, params dto.CaptchaRequest) (*gateway.Envelope[vo.CaptchaResult], error) {
	const operation = "AuthService.FetchCaptcha"
	env, err := gateway.Request[vo.CaptchaResult](ctx, s.gw, PathCaptcha, gateway.RequestOptions{
		Method: http.MethodPost,
		Body:   params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *authService) SendSms(ctx context.Context, params dto.SendSmsParams) (*gateway.Envelope[any], error) {
	const operation = "AuthService.SendSms"
	if err := utils.ValidateParams(params); err != nil {
		s.logger.Warn("发送短信参数校验失败", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}
	env, err := gateway.Request[any](ctx, s.gw, PathSendSms, gateway.RequestOptions{
		Method: http.MethodPost,
		Body:   params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if !env.Success {
		s.logger.Warn("发送短信验证码失败",
			zap.String("operation", operation),
			zap.Int("code", env.Code),
			zap.String("message", env.Message),
		)
	}
	return env, nil
}

func (s *authService) LoginByPhone(ctx context.Context, params dto.LoginParams) (*gateway.Envelope[string], error) {
	const operation = "AuthService.LoginByPhone"
	if err := utils.ValidateParams(params); err != nil {
		s.logger.Warn("登录参数校验失败", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}
	passThrough := enums.NullDataPassThrough
	env, err := gateway.Request[string](ctx, s.gw, PathLogin, gateway.RequestOptions{
		Method:   http.MethodPost,
		Body:     params,
		NullData: &passThrough,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if env.Success && env.Data == nil {
		empty := ""
		env.Data = &empty
	}
	return env, nil
}

func (s *authService) GetInfo(ctx context.Context) (*gateway.Envelope[vo.GetInfoResponse], error) {
	const operation = "AuthService.GetInfo"
	reject := enums.NullDataReject
	env, err := gateway.Request[vo.GetInfoResponse](ctx, s.gw, PathGetInfo, gateway.RequestOptions{
		Method:       http.MethodGet,
		RequireToken: true,
		NullData:     &reject,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *authService) BindPhone(ctx context.Context, params dto.BindPhoneParams) (*gateway.Envelope[string], error) {
	const operation = "AuthService.BindPhone"
	if err := utils.ValidateParams(params); err != nil {
		s.logger.Warn("绑定手机号参数校验失败", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}
	env, err := gateway.Request[string](ctx, s.gw, PathBindPhone, gateway.RequestOptions{
		Method: http.MethodPost,
		Body:   params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}
