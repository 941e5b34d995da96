// Package session 把各业务接口串成完整的用户流程：
// 登录后保存令牌并加载用户信息，登出时清理，以及下单到支付完成的整个过程。
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/repository"
	"github.com/Xushengqwer/codefix_portal/service/auth"
	"github.com/Xushengqwer/codefix_portal/service/payment"
	"github.com/Xushengqwer/codefix_portal/service/wechat"
	"github.com/Xushengqwer/codefix_portal/state"
)

// BindRequiredError 扫码成功但该微信尚未绑定用户，需要用 OpenID 绑定手机号。
type BindRequiredError struct {
	OpenID string
}

func (e *BindRequiredError) Error() string {
	return "微信尚未绑定手机号，请先绑定"
}

// BootstrapResult 启动时并发加载的结果。
type BootstrapResult struct {
	User     state.UserState
	Packages []vo.Package

	// ProfileErr 用户信息加载失败（令牌失效除外）时的错误，此时 User 为加载前的状态。
	ProfileErr error
}

// SessionService 登录态与下单流程。
type SessionService interface {
	// LoginByPhone 手机号验证码登录，成功后保存令牌并加载用户信息。
	LoginByPhone(ctx context.Context, params dto.LoginParams) (state.UserState, error)

	// LoginByWechat 等待扫码结果；已绑定用户直接登录，未绑定返回 *BindRequiredError。
	LoginByWechat(ctx context.Context, sceneStr string, interval time.Duration) (state.UserState, error)

	// BindPhone 用扫码得到的 openId 绑定手机号，成功后等同于登录。
	BindPhone(ctx context.Context, params dto.BindPhoneParams) (state.UserState, error)

	// LoginWithToken 直接使用已有令牌登录。
	LoginWithToken(ctx context.Context, token string) (state.UserState, error)

	// Refresh 重新拉取用户信息并整体替换用户状态。
	Refresh(ctx context.Context) (state.UserState, error)

	// Logout 清除令牌与用户状态。
	Logout(ctx context.Context) error

	// Bootstrap 并发加载用户信息（有令牌时）、支付配置与套餐列表。
	Bootstrap(ctx context.Context) (BootstrapResult, error)

	// Checkout 为选中的套餐下单，返回支付二维码。
	Checkout(ctx context.Context, pkg vo.Package, platform enums.PayPlatform, payEnv string) (*vo.OrderResult, error)

	// CompleteCheckout 等待订单支付完成，关闭支付弹窗并刷新余额。
	CompleteCheckout(ctx context.Context, orderID string, interval time.Duration) (*vo.OrderResult, error)
}

type sessionService struct {
	authSvc    auth.AuthService
	wechatSvc  wechat.WechatService
	paymentSvc payment.PaymentService
	tokens     repository.TokenStore
	users      *state.UserStore
	payments   *state.PaymentStore
	logger     *core.ZapLogger
}

// NewSessionService 创建 SessionService。
func NewSessionService(
	authSvc auth.AuthService,
	wechatSvc wechat.WechatService,
	paymentSvc payment.PaymentService,
	tokens repository.TokenStore,
	users *state.UserStore,
	payments *state.PaymentStore,
	logger *core.ZapLogger,
) SessionService {
	return &sessionService{
		authSvc:    authSvc,
		wechatSvc:  wechatSvc,
		paymentSvc: paymentSvc,
		tokens:     tokens,
		users:      users,
		payments:   payments,
		logger:     logger,
	}
}

func (s *sessionService) LoginByPhone(ctx context.Context, params dto.LoginParams) (state.UserState, error) {
	const operation = "SessionService.LoginByPhone"
	env, err := s.authSvc.LoginByPhone(ctx, params)
	if err != nil {
		return state.UserState{}, err
	}
	if err := env.Err(); err != nil {
		s.logger.Warn("手机号登录失败", zap.String("phone", params.Phone), zap.Error(err))
		return state.UserState{}, fmt.Errorf("%s: %w", operation, err)
	}
	return s.establish(ctx, operation, derefToken(env.Data))
}

func (s *sessionService) LoginByWechat(ctx context.Context, sceneStr string, interval time.Duration) (state.UserState, error) {
	const operation = "SessionService.LoginByWechat"
	result, err := s.wechatSvc.WaitForLogin(ctx, sceneStr, interval)
	if err != nil {
		return state.UserState{}, err
	}
	if result.Token == "" {
		return state.UserState{}, &BindRequiredError{OpenID: result.OpenID}
	}
	return s.establish(ctx, operation, result.Token)
}

func (s *sessionService) BindPhone(ctx context.Context, params dto.BindPhoneParams) (state.UserState, error) {
	const operation = "SessionService.BindPhone"
	env, err := s.authSvc.BindPhone(ctx, params)
	if err != nil {
		return state.UserState{}, err
	}
	if err := env.Err(); err != nil {
		return state.UserState{}, fmt.Errorf("%s: %w", operation, err)
	}
	return s.establish(ctx, operation, derefToken(env.Data))
}

func (s *sessionService) LoginWithToken(ctx context.Context, token string) (state.UserState, error) {
	return s.establish(ctx, "SessionService.LoginWithToken", token)
}

// establish 保存令牌并加载用户信息。加载失败时恢复原令牌（没有则清除），
// 令牌与用户状态始终对应同一个登录态。
func (s *sessionService) establish(ctx context.Context, operation, token string) (state.UserState, error) {
	if token == "" {
		return state.UserState{}, fmt.Errorf("%s: %w", operation, commonerrors.ErrEmptyToken)
	}
	previous, err := s.tokens.GetToken(ctx)
	if err != nil {
		return state.UserState{}, fmt.Errorf("%s: 读取令牌失败: %w", operation, err)
	}
	if err := s.tokens.SetToken(ctx, token); err != nil {
		return state.UserState{}, fmt.Errorf("%s: 保存令牌失败: %w", operation, err)
	}
	st, err := s.Refresh(ctx)
	if err != nil {
		s.rollbackToken(ctx, operation, previous)
		return state.UserState{}, err
	}
	s.logger.Info("登录成功", zap.String("operation", operation), zap.Int("userId", st.UserInfo.ID))
	return st, nil
}

func (s *sessionService) rollbackToken(ctx context.Context, operation, previous string) {
	var err error
	if previous != "" {
		err = s.tokens.SetToken(ctx, previous)
	} else {
		s.users.Clear()
		err = s.tokens.ClearToken(ctx)
	}
	if err != nil {
		// 回滚失败时令牌状态未知，按未登录处理
		s.users.Clear()
		s.logger.Error("回滚令牌失败", zap.String("operation", operation), zap.Error(err))
	}
}

func (s *sessionService) Refresh(ctx context.Context) (state.UserState, error) {
	const operation = "SessionService.Refresh"
	env, err := s.authSvc.GetInfo(ctx)
	if err != nil {
		return state.UserState{}, err
	}
	if err := env.Err(); err != nil {
		return state.UserState{}, fmt.Errorf("%s: %w", operation, err)
	}
	return s.users.Update(env.Data.UserInfo, env.Data.UserBalance), nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	const operation = "SessionService.Logout"
	if err := s.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("%s: 清除令牌失败: %w", operation, err)
	}
	s.users.Clear()
	s.payments.SetPayDialog(false)
	s.logger.Info("已登出")
	return nil
}

func (s *sessionService) Bootstrap(ctx context.Context) (BootstrapResult, error) {
	const operation = "SessionService.Bootstrap"
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return BootstrapResult{}, fmt.Errorf("%s: 读取令牌失败: %w", operation, err)
	}

	// 三项加载互不影响：用户信息与支付配置失败只记录，套餐列表失败才整体返回错误
	var (
		result   BootstrapResult
		packages []vo.Package
	)
	var g errgroup.Group

	if token != "" {
		g.Go(func() error {
			result.ProfileErr = s.loadProfile(ctx)
			return nil
		})
	}

	g.Go(func() error {
		if err := s.loadPayConfig(ctx); err != nil {
			s.logger.Warn("获取支付配置失败，沿用本地配置", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		env, err := s.paymentSvc.ListPackages(ctx)
		if err != nil {
			return err
		}
		if err := env.Err(); err != nil {
			return fmt.Errorf("%s: 获取套餐失败: %w", operation, err)
		}
		if env.Data == nil {
			return nil
		}
		packages = make([]vo.Package, 0, len(env.Data.Rows))
		for _, row := range env.Data.Rows {
			packages = append(packages, row.ToPackage())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BootstrapResult{}, err
	}

	// 尚未选择套餐时默认选中第一个
	if len(packages) > 0 && s.payments.Snapshot().OrderInfo.PkgInfo.ID == 0 {
		s.payments.SetOrderInfo(vo.OrderInfo{PkgInfo: packages[0]})
	}
	result.User = s.users.Snapshot()
	result.Packages = packages
	return result, nil
}

// loadProfile 刷新用户信息；令牌已失效时清除本地登录态并视为未登录。
func (s *sessionService) loadProfile(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		s.logger.Warn("本地令牌已失效，已清除", zap.String("message", apiErr.Message))
		s.users.Clear()
		return s.tokens.ClearToken(ctx)
	}
	if err != nil {
		s.logger.Warn("加载用户信息失败", zap.Error(err))
	}
	return err
}

func (s *sessionService) loadPayConfig(ctx context.Context) error {
	env, err := s.paymentSvc.GetPayConfig(ctx)
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	if env.Data == nil {
		return nil
	}
	s.payments.UpdateConfig(state.ConfigPatch{
		PayWechatStatus: env.Data.PayWechatStatus,
		PayAliStatus:    env.Data.PayAliStatus,
	})
	return nil
}

func (s *sessionService) Checkout(ctx context.Context, pkg vo.Package, platform enums.PayPlatform, payEnv string) (*vo.OrderResult, error) {
	const operation = "SessionService.Checkout"
	if !platformEnabled(s.payments.Snapshot(), platform) {
		return nil, fmt.Errorf("%s: %s: %w", operation, platform, commonerrors.ErrPlatformDisabled)
	}
	s.payments.SetOrderInfo(vo.OrderInfo{PkgInfo: pkg})

	env, err := s.paymentSvc.BuyOrder(ctx, dto.OrderBuyParams{
		GoodsID: pkg.ID,
		PayType: string(enums.ChannelFor(platform)),
		PayEnv:  payEnv,
	})
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%s: %w", operation, commonerrors.ErrNullData)
	}
	s.payments.SetGoodsDialog(false)
	s.payments.SetPayDialog(true)
	return env.Data, nil
}

func (s *sessionService) CompleteCheckout(ctx context.Context, orderID string, interval time.Duration) (*vo.OrderResult, error) {
	const operation = "SessionService.CompleteCheckout"
	order, err := s.paymentSvc.WaitForPaid(ctx, orderID, interval)
	if err != nil {
		return nil, err
	}
	s.payments.SetPayDialog(false)
	if _, err := s.Refresh(ctx); err != nil {
		return order, fmt.Errorf("%s: 支付成功但刷新余额失败: %w", operation, err)
	}
	return order, nil
}

func platformEnabled(st state.PaymentState, platform enums.PayPlatform) bool {
	for _, p := range st.PayPlatforms() {
		if p == platform {
			return true
		}
	}
	return false
}

func derefToken(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
