package payment

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
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/utils"
)

const (
	PathOrderBuy     = "order/buy"
	PathOrderQuery   = "order/queryByOrderId"
	PathPackageQuery = "crami/queryAllPackage"
	PathPayConfig    = "config/queryPayConfig"

	// 套餐列表固定只取上架套餐的前 30 条
	packageStatusOnSale = 1
	packagePageSize     = 30
)

// PaymentService 定义了下单、查单与套餐列表相关的后端调用。
type PaymentService interface {
	// BuyOrder 创建订单，返回支付二维码地址与订单号。
	BuyOrder(ctx context.Context, params dto.OrderBuyParams) (*gateway.Envelope[vo.OrderResult], error)

	// QueryOrder 查询订单状态。
	QueryOrder(ctx context.Context, orderID string) (*gateway.Envelope[vo.OrderResult], error)

	// ListPackages 获取在售套餐列表。
	ListPackages(ctx context.Context) (*gateway.Envelope[vo.PackageList], error)

	// GetPayConfig 获取后端当前启用的支付平台。
	GetPayConfig(ctx context.Context) (*gateway.Envelope[vo.PayConfig], error)

	// WaitForPaid 按 interval 轮询订单，直到状态不再是待支付，或 ctx 结束。
	WaitForPaid(ctx context.Context, orderID string, interval time.Duration) (*vo.OrderResult, error)
}

type paymentService struct {
	gw     *gateway.Gateway
	logger *core.ZapLogger
}

// NewPaymentService 创建 PaymentService。
func NewPaymentService(gw *gateway.Gateway, logger *core.ZapLogger) PaymentService {
	return &paymentService{gw: gw, logger: logger}
}

func (s *paymentService) BuyOrder(ctx context.Context, params dto.OrderBuyParams) (*gateway.Envelope[vo.OrderResult], error) {
	const operation = "PaymentService.BuyOrder"
	if err := utils.ValidateParams(params); err != nil {
		return nil, err
	}
	env, err := gateway.Request[vo.OrderResult](ctx, s.gw, PathOrderBuy, gateway.RequestOptions{
		Method:       http.MethodPost,
		Body:         params,
		RequireToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if env.Success && env.Data != nil {
		s.logger.Info("订单创建成功",
			zap.Int("goodsId", params.GoodsID),
			zap.String("payType", params.PayType),
			zap.String("orderId", env.Data.OrderID),
		)
	}
	return env, nil
}

func (s *paymentService) QueryOrder(ctx context.Context, orderID string) (*gateway.Envelope[vo.OrderResult], error) {
	const operation = "PaymentService.QueryOrder"
	if orderID == "" {
		return nil, fmt.Errorf("%s: orderId 为空: %w", operation, commonerrors.ErrInvalidParam)
	}
	env, err := gateway.Request[vo.OrderResult](ctx, s.gw, PathOrderQuery, gateway.RequestOptions{
		Method:       http.MethodGet,
		Query:        gateway.NewQuery("orderId", orderID),
		RequireToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *paymentService) ListPackages(ctx context.Context) (*gateway.Envelope[vo.PackageList], error) {
	const operation = "PaymentService.ListPackages"
	env, err := gateway.Request[vo.PackageList](ctx, s.gw, PathPackageQuery, gateway.RequestOptions{
		Method: http.MethodGet,
		Query:  gateway.NewQuery("status", packageStatusOnSale, "size", packagePageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *paymentService) GetPayConfig(ctx context.Context) (*gateway.Envelope[vo.PayConfig], error) {
	const operation = "PaymentService.GetPayConfig"
	env, err := gateway.Request[vo.PayConfig](ctx, s.gw, PathPayConfig, gateway.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return env, nil
}

func (s *paymentService) WaitForPaid(ctx context.Context, orderID string, interval time.Duration) (*vo.OrderResult, error) {
	const operation = "PaymentService.WaitForPaid"
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		env, err := s.QueryOrder(ctx, orderID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, fmt.Errorf("%s: 等待支付超时或已取消: %w", operation, ctxErr)
			}
			return nil, err
		}
		if env.Success && env.Data != nil && env.Data.Status != enums.OrderUnpaid {
			s.logger.Info("订单状态已变更",
				zap.String("orderId", orderID),
				zap.Int("status", int(env.Data.Status)),
			)
			return env.Data, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: 等待支付超时或已取消: %w", operation, ctx.Err())
		case <-ticker.C:
		}
	}
}
