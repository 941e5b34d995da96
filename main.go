package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/initialization"
)

var (
	// 全局参数
	configFile string
	verbose    bool
	baseURL    string
	storage    string
	timeout    time.Duration

	// 在 PersistentPreRunE 中初始化
	cfg         config.CodefixConfig
	logger      *core.ZapLogger
	appDeps     *initialization.AppDependencies
	appServices *initialization.AppServices
)

// skipClientAnnotation 标记不需要初始化客户端依赖的命令（如 mock-server）。
const skipClientAnnotation = "skip-client"

// rootCmd 代码纠错门户的命令行入口
var rootCmd = &cobra.Command{
	Use:   "codefix",
	Short: "AI 代码纠错门户命令行客户端",
	Long: `codefix 通过门户后端完成登录、查看余额、购买套餐与代码纠错。

登录令牌保存在本地持久化存储中（默认 SQLite 文件），后续命令自动携带。
使用 "codefix mock-server" 可以在本地启动一个模拟后端用于联调。`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRuntime,
}

func init() {
	// 命令失败时也会执行，保证令牌存储被关闭
	cobra.OnFinalize(teardownRuntime)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.development.yaml", "配置文件路径，文件不存在时使用内置默认配置")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出 debug 级别日志")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "覆盖后端地址，例如 http://localhost:8090/api")
	rootCmd.PersistentFlags().StringVar(&storage, "storage", "", "覆盖令牌存储驱动: memory, sqlite, mysql, redis")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "单个命令的总超时（含轮询）")

	rootCmd.AddCommand(captchaCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(mockServerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupRuntime 加载配置、初始化日志，并按需初始化客户端依赖与服务。
func setupRuntime(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	overrides := applyEnvOverrides(&cfg)
	if baseURL != "" {
		cfg.GatewayConfig.BaseURL = baseURL
	}
	if storage != "" {
		cfg.StorageConfig.Driver = storage
	}
	if verbose {
		cfg.ZapConfig.Level = "debug"
	}

	logger, err = core.NewZapLogger(cfg.ZapConfig)
	if err != nil {
		return fmt.Errorf("初始化 ZapLogger 失败: %w", err)
	}
	for _, o := range overrides {
		logger.Debug("通过环境变量覆盖了配置", zap.String("field", o))
	}

	if cmd.Annotations[skipClientAnnotation] == "true" {
		return nil
	}

	appDeps, err = initialization.SetupDependencies(&cfg, logger)
	if err != nil {
		return fmt.Errorf("初始化基础依赖失败: %w", err)
	}
	appServices = initialization.SetupServices(appDeps)
	logger.Debug("客户端初始化完成", zap.String("version", constants.ServiceVersion))
	return nil
}

func teardownRuntime() {
	if appDeps != nil {
		if err := appDeps.Close(); err != nil {
			logger.Warn("关闭令牌存储失败", zap.Error(err))
		}
		appDeps = nil
	}
	appServices = nil
	if logger != nil {
		_ = logger.Sync()
	}
}

// loadConfig 以内置默认配置为底，用配置文件覆盖；文件不存在时直接使用默认配置。
func loadConfig(path string) (config.CodefixConfig, error) {
	c := config.Default()
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err := core.LoadConfig(path, &c); err != nil {
		return config.CodefixConfig{}, err
	}
	return c, nil
}

// commandContext 返回带总超时并在收到中断信号时取消的 context。
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
