package wechat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/vo"
)

const (
	PathSceneStr     = "official/getQRSceneStr"
	PathQRCode       = "official/getQRCode"
	PathLoginByScene = "official/loginBySceneStr"
)

// WechatService 定义了公众号扫码登录相关的后端调用。
type WechatService interface {
	// GetQRSceneStr 申请一个扫码场景值。
	GetQRSceneStr(ctx context.Context) (*gateway.Envelope[string], error)

	// GetQRCode 根据场景值获取二维码地址。
	GetQRCode(ctx context.Context, sceneStr string) (*gateway.Envelope[string], error)

	// CheckLoginStatus 查询一次场景值对应的扫码状态。
	CheckLoginStatus(ctx context.Context, sceneStr string) (*gateway.Envelope[vo.WechatLoginResult], error)

	// WaitForLogin 按 interval 轮询扫码状态，直到拿到令牌或 openId，或 ctx 结束。
	// - interval <= 0 时使用默认轮询间隔。
	// - 后端返回 success 为 false 视为“尚未扫码”，继续轮询。
	WaitForLogin(ctx context.Context, sceneStr string, interval time.Duration) (vo.WechatLoginResult, error)
}

type wechatService struct {
	gw     *gateway.Gateway
	logger *core.ZapLogger
}

// NewWechatService 创建 WechatService。
func NewWechatService(gw *gateway.Gateway, logger *core.ZapLogger) WechatService {
	return &wechatService{gw: gw, logger: logger}
}

func (s *wechatService) GetQRSceneStr(ctx context.Context) (*gateway.Envelope[string], error) {
	const operation = "WechatService.GetQRSceneStr"
	env, err := gateway.Request[string](ctx, s.gw, PathSceneStr, gateway.RequestOptions{Method: http.MethodPost})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *wechatService) GetQRCode(ctx context.Context, sceneStr string) (*gateway.Envelope[string], error) {
	const operation = "WechatService.GetQRCode"
	if sceneStr == "" {
		return nil, fmt.Errorf("%s: sceneStr 为空: %w", operation, commonerrors.ErrInvalidParam)
	}
	env, err := gateway.Request[string](ctx, s.gw, PathQRCode, gateway.RequestOptions{
		Method: http.MethodGet,
		Query:  gateway.NewQuery("sceneStr", sceneStr),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *wechatService) CheckLoginStatus(ctx context.Context, sceneStr string) (*gateway.Envelope[vo.WechatLoginResult], error) {
	const operation = "WechatService.CheckLoginStatus"
	if sceneStr == "" {
		return nil, fmt.Errorf("%s: sceneStr 为空: %w", operation, commonerrors.ErrInvalidParam)
	}
	env, err := gateway.Request[vo.WechatLoginResult](ctx, s.gw, PathLoginByScene, gateway.RequestOptions{
		Method: http.MethodPost,
		Body:   dto.SceneStrRequest{SceneStr: sceneStr},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *wechatService) WaitForLogin(ctx context.Context, sceneStr string, interval time.Duration) (vo.WechatLoginResult, error) {
	const operation = "WechatService.WaitForLogin"
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		env, err := s.CheckLoginStatus(ctx, sceneStr)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return vo.WechatLoginResult{}, fmt.Errorf("%s: 等待扫码超时或已取消: %w", operation, ctxErr)
			}
			return vo.WechatLoginResult{}, err
		}
		if env.Success && env.Data != nil && env.Data.Done() {
			s.logger.Info("扫码登录完成",
				zap.String("sceneStr", sceneStr),
				zap.Int("attempts", attempt),
				zap.Bool("needBind", env.Data.Token == ""),
			)
			return *env.Data, nil
		}
		s.logger.Debug("尚未扫码", zap.String("sceneStr", sceneStr), zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return vo.WechatLoginResult{}, fmt.Errorf("%s: 等待扫码超时或已取消: %w", operation, ctx.Err())
		case <-ticker.C:
		}
	}
}
