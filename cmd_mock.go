package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/router"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
	"github.com/Xushengqwer/codefix_portal/utils"
)

var mockPort string

var mockServerCmd = &cobra.Command{
	Use:         "mock-server",
	Short:       "启动本地模拟后端",
	Long:        `在本地启动实现全部接口的模拟后端，数据保存在内存中。`,
	Annotations: map[string]string{skipClientAnnotation: "true"},
	RunE:        runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&mockPort, "port", "", "监听端口，默认取配置 mockServerConfig.port")
}

// newMockHandler 组装 mock 后端的 gin 引擎。
func newMockHandler(c *config.CodefixConfig, l *core.ZapLogger) (*gin.Engine, error) {
	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("注册自定义验证器失败: %w", err)
	}
	jwtUtil := dependencies.NewJWTUtility(&c.JWTConfig)
	backend := mockbackend.NewBackend(&c.MockServerConfig, jwtUtil, l)
	return router.SetupRouter(l, c, jwtUtil, backend), nil
}

func runMockServer(cmd *cobra.Command, args []string) error {
	if mockPort != "" {
		cfg.MockServerConfig.Port = mockPort
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.TracerConfig.Enabled {
		shutdown, err := core.InitTracerProvider(constants.ServiceName+"-mock", constants.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			return fmt.Errorf("初始化 TracerProvider 失败: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
	}

	handler, err := newMockHandler(&cfg, logger)
	if err != nil {
		return err
	}

	serverAddress := fmt.Sprintf(":%s", cfg.MockServerConfig.Port)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock 后端开始监听", zap.String("address", serverAddress))
		fmt.Fprintf(cmd.OutOrStdout(), "mock 后端已启动: http://localhost%s/api\n", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock 后端启动失败: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("接收到关停信号", zap.String("signal", sig.String()))
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("mock 后端优雅关停失败", zap.Error(err))
		return err
	}
	logger.Info("mock 后端已关闭")
	return nil
}
