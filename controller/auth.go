package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/middleware"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
)

// AuthController 处理验证码、手机号登录、绑定与用户信息请求。
type AuthController struct {
	backend *mockbackend.Backend
	logger  *core.ZapLogger
}

// NewAuthController 创建 AuthController。
func NewAuthController(backend *mockbackend.Backend, logger *core.ZapLogger) *AuthController {
	return &AuthController{backend: backend, logger: logger}
}

// Captcha 生成图形验证码。
func (ctrl *AuthController) Captcha(c *gin.Context) {
	var req dto.CaptchaRequest
	// 请求体可以为空
	_ = c.ShouldBindJSON(&req)
	RespondSuccess(c, ctrl.backend.Captcha(req), "获取验证码成功")
}

// SendPhoneCode 发送短信验证码。
func (ctrl *AuthController) SendPhoneCode(c *gin.Context) {
	const operation = "AuthController.SendPhoneCode"
	var req dto.SendSmsParams
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("发送短信请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		RespondError(c, http.StatusBadRequest, "手机号或验证码格式不正确")
		return
	}
	if err := ctrl.backend.SendPhoneCode(req); err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, nil, "验证码已发送")
}

// LoginByPhone 手机号验证码登录，data 为令牌。
func (ctrl *AuthController) LoginByPhone(c *gin.Context) {
	const operation = "AuthController.LoginByPhone"
	var req dto.LoginParams
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("登录请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		RespondError(c, http.StatusBadRequest, "手机号或验证码格式不正确")
		return
	}
	token, err := ctrl.backend.LoginByPhone(req)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, token, "登录成功")
}

// BindOpenID 绑定手机号并登录，data 为令牌。
func (ctrl *AuthController) BindOpenID(c *gin.Context) {
	const operation = "AuthController.BindOpenID"
	var req dto.BindPhoneParams
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("绑定请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		RespondError(c, http.StatusBadRequest, "输入参数无效")
		return
	}
	token, err := ctrl.backend.BindOpenID(req)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, token, "绑定成功")
}

// GetInfo 返回当前登录用户的信息与余额。
func (ctrl *AuthController) GetInfo(c *gin.Context) {
	const operation = "AuthController.GetInfo"
	userID, _ := middleware.UserIDFrom(c)
	info, err := ctrl.backend.UserInfo(userID)
	if err != nil {
		respondBizError(c, ctrl.logger, operation, err)
		return
	}
	RespondSuccess(c, info, "获取用户信息成功")
}

// RegisterRoutes 注册路由，authed 分组要求登录。
func (ctrl *AuthController) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/auth/captcha", ctrl.Captcha)
	public.POST("/auth/sendPhoneCode", ctrl.SendPhoneCode)
	public.POST("/auth/loginByPhoneCapter", ctrl.LoginByPhone)
	public.POST("/auth/createUserBybindOpenid", ctrl.BindOpenID)
	authed.GET("/auth/getInfo", ctrl.GetInfo)
}

// respondBizError 把业务错误映射为对应状态码的失败响应，其余错误按 500 处理。
func respondBizError(c *gin.Context, logger *core.ZapLogger, operation string, err error) {
	var biz *mockbackend.BizError
	if errors.As(err, &biz) {
		logger.Warn("业务错误", zap.String("operation", operation), zap.Int("status", biz.Status), zap.String("message", biz.Message))
		RespondError(c, biz.Status, biz.Message)
		return
	}
	logger.Error("系统错误", zap.String("operation", operation), zap.Error(err))
	RespondError(c, http.StatusInternalServerError, "系统内部错误")
}
