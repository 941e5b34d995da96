package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/middleware"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
)

// CodefixController 代码纠错。
// 与其他接口不同，这两个接口直接返回结果对象，失败时只返回 {"message": ...}。
type CodefixController struct {
	backend *mockbackend.Backend
	logger  *core.ZapLogger
}

func NewCodefixController(backend *mockbackend.Backend, logger *core.ZapLogger) *CodefixController {
	return &CodefixController{backend: backend, logger: logger}
}

func (ctrl *CodefixController) Fix(c *gin.Context) {
	ctrl.correct(c, false)
}

// FixOfVIP 高级模式，要求代码纠错会员未过期。
func (ctrl *CodefixController) FixOfVIP(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)
	if !ctrl.backend.HasActiveMembership(userID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "会员已过期，请先购买套餐"})
		return
	}
	ctrl.correct(c, true)
}

func (ctrl *CodefixController) correct(c *gin.Context, advanced bool) {
	var req dto.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("代码纠错参数绑定失败", zap.Bool("advanced", advanced), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "code 不能为空"})
		return
	}
	c.JSON(http.StatusOK, ctrl.backend.Correct(req, advanced))
}

func (ctrl *CodefixController) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/codefix/fix", ctrl.Fix)
	authed.POST("/codefix/fixOfVIP", ctrl.FixOfVIP)
}
