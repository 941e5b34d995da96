package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
)

// WechatController 公众号扫码登录。
type WechatController struct {
	backend *mockbackend.Backend
	logger  *core.ZapLogger
}

func NewWechatController(backend *mockbackend.Backend, logger *core.ZapLogger) *WechatController {
	return &WechatController{backend: backend, logger: logger}
}

func (ctrl *WechatController) GetQRSceneStr(c *gin.Context) {
	RespondSuccess(c, ctrl.backend.NewScene(), "获取场景值成功")
}

func (ctrl *WechatController) GetQRCode(c *gin.Context) {
	const operation = "WechatController.GetQRCode"
	url, err := ctrl.backend.QRCodeURL(c.Query("sceneStr"))
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, url, "获取二维码成功")
}

// LoginBySceneStr 轮询扫码状态。未扫码时 data 为空对象。
func (ctrl *WechatController) LoginBySceneStr(c *gin.Context) {
	const operation = "WechatController.LoginBySceneStr"
	var req dto.SceneStrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "sceneStr 不能为空")
		return
	}
	result, err := ctrl.backend.CheckScene(req.SceneStr)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, result, "查询成功")
}

// MockScan 模拟扫码确认，仅 mock 后端提供。
func (ctrl *WechatController) MockScan(c *gin.Context) {
	const operation = "WechatController.MockScan"
	var req dto.MockScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "sceneStr 不能为空")
		return
	}
	openID, err := ctrl.backend.SimulateScan(req)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	ctrl.logger.Info("模拟扫码", zap.String("sceneStr", req.SceneStr), zap.String("openId", openID))
	RespondSuccess(c, openID, "已模拟扫码")
}

func (ctrl *WechatController) RegisterRoutes(public *gin.RouterGroup) {
	public.POST("/official/getQRSceneStr", ctrl.GetQRSceneStr)
	public.GET("/official/getQRCode", ctrl.GetQRCode)
	public.POST("/official/loginBySceneStr", ctrl.LoginBySceneStr)
	public.POST("/mock/scan", ctrl.MockScan)
}
