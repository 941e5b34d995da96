package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/middleware"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
)

// OrderController 套餐、下单与查单。
type OrderController struct {
	backend *mockbackend.Backend
	logger  *core.ZapLogger
}

func NewOrderController(backend *mockbackend.Backend, logger *core.ZapLogger) *OrderController {
	return &OrderController{backend: backend, logger: logger}
}

// QueryAllPackage 套餐列表，支持 status 与 size 查询参数。
func (ctrl *OrderController) QueryAllPackage(c *gin.Context) {
	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	RespondSuccess(c, ctrl.backend.Packages(status, size), "查询成功")
}

// QueryPayConfig 支付开关配置。
func (ctrl *OrderController) QueryPayConfig(c *gin.Context) {
	RespondSuccess(c, ctrl.backend.PayConfig(), "查询成功")
}

func (ctrl *OrderController) Buy(c *gin.Context) {
	const operation = "OrderController.Buy"
	var req dto.OrderBuyParams
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("下单参数绑定失败", zap.String("operation", operation), zap.Error(err))
		RespondError(c, http.StatusBadRequest, "输入参数无效")
		return
	}
	userID, _ := middleware.UserIDFrom(c)
	result, err := ctrl.backend.BuyOrder(userID, req)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, result, "下单成功")
}

func (ctrl *OrderController) QueryByOrderID(c *gin.Context) {
	const operation = "OrderController.QueryByOrderID"
	orderID := c.Query("orderId")
	if orderID == "" {
		RespondError(c, http.StatusBadRequest, "orderId 不能为空")
		return
	}
	userID, _ := middleware.UserIDFrom(c)
	result, err := ctrl.backend.QueryOrder(userID, orderID)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, result, "查询成功")
}

// MockPay 模拟支付成功回调，仅 mock 后端提供。
func (ctrl *OrderController) MockPay(c *gin.Context) {
	const operation = "OrderController.MockPay"
	var req dto.MockPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "orderId 不能为空")
		return
	}
	result, err := ctrl.backend.SimulatePaid(req.OrderID)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, result, "已模拟支付")
}

func (ctrl *OrderController) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/crami/queryAllPackage", ctrl.QueryAllPackage)
	public.GET("/config/queryPayConfig", ctrl.QueryPayConfig)
	public.POST("/mock/pay", ctrl.MockPay)
	authed.POST("/order/buy", ctrl.Buy)
	authed.GET("/order/queryByOrderId", ctrl.QueryByOrderID)
}
