package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/controller"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/middleware"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
)

// SetupRouter 初始化 mock 后端的 Gin 引擎：全局中间件 + /api 分组下的全部接口。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *config.CodefixConfig,
	jwtUtil dependencies.JWTTokenInterface,
	backend *mockbackend.Backend,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	router := gin.New()

	// 1. OTel Middleware (最先，处理追踪上下文和 Span)
	if cfg.TracerConfig.Enabled {
		router.Use(otelgin.Middleware(constants.ServiceName))
	}

	// 2. Panic Recovery
	router.Use(middleware.ErrorHandlingMiddleware(logger))

	// 3. Request Logger
	router.Use(middleware.RequestLoggerMiddleware(logger.Logger()))

	// 4. Request Timeout
	requestTimeout := time.Duration(cfg.MockServerConfig.RequestTimeout) * time.Second
	router.Use(middleware.RequestTimeoutMiddleware(logger, requestTimeout))

	api := router.Group("/api")
	authed := api.Group("", middleware.BearerAuth(jwtUtil, logger))

	authCtrl := controller.NewAuthController(backend, logger)
	wechatCtrl := controller.NewWechatController(backend, logger)
	orderCtrl := controller.NewOrderController(backend, logger)
	codefixCtrl := controller.NewCodefixController(backend, logger)

	authCtrl.RegisterRoutes(api, authed)
	wechatCtrl.RegisterRoutes(api)
	orderCtrl.RegisterRoutes(api, authed)
	codefixCtrl.RegisterRoutes(api, authed)

	logger.Info("所有业务路由已成功注册", zap.String("prefix", "/api"))
	return router
}
