package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/testutil"
)

// run 执行一条命令并返回标准输出。
func run(t *testing.T, mock *testutil.MockServer, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(append([]string{"--config", "", "--base-url", mock.BaseURL()}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_PhoneLoginOrderAndFix(t *testing.T) {
	mock := testutil.NewMockServer(t)
	t.Setenv("STORAGECONFIG_DRIVER", "sqlite")
	t.Setenv("SQLITECONFIG_PATH", filepath.Join(t.TempDir(), "codefix.db"))
	t.Setenv("ZAPCONFIG_LEVEL", "error")

	out, err := run(t, mock, "login", "sms", "--phone", "13800138000", "--captcha-code", "abcd")
	require.NoError(t, err)
	assert.Contains(t, out, "短信验证码已发送")

	out, err = run(t, mock, "login", "phone", "--phone", "13800138000", "--code", testutil.SmsCode)
	require.NoError(t, err)
	assert.Contains(t, out, "用户8000")

	out, err = run(t, mock, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "代码纠错会员: 未开通或已过期")

	out, err = run(t, mock, "packages")
	require.NoError(t, err)
	assert.Contains(t, out, "月卡")

	out, err = run(t, mock, "order", "buy", "--goods-id", "2", "--pay", "wechat")
	require.NoError(t, err)
	m := regexp.MustCompile(`订单号: (\w+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	orderID := m[1]
	assert.Contains(t, out, "weixin://wxpay")

	out, err = run(t, mock, "order", "query", orderID)
	require.NoError(t, err)
	assert.Contains(t, out, "待支付")

	_, err = mock.Backend.SimulatePaid(orderID)
	require.NoError(t, err)
	out, err = run(t, mock, "order", "wait", orderID, "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "已支付")
	assert.Contains(t, out, "代码纠错会员: 有效至")

	src := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(src, []byte("func main() {\n"), 0o600))
	out, err = run(t, mock, "fix", "--file", src, "--advanced")
	require.NoError(t, err)
	assert.Contains(t, out, "接口: codefix/fixOfVIP")
	assert.Contains(t, out, "func main() {\n}")

	out, err = run(t, mock, "token")
	require.NoError(t, err)
	assert.Contains(t, out, "issuer:    "+mock.Config.JWTConfig.Issuer)

	out, err = run(t, mock, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "已登出")

	_, err = run(t, mock, "whoami")
	require.ErrorIs(t, err, commonerrors.ErrNoToken)
	assert.Nil(t, appDeps, "storage closed after a failing command")
}

func TestCLI_WechatUnboundPrintsOpenID(t *testing.T) {
	mock := testutil.NewMockServer(t, func(c *config.CodefixConfig) {
		c.MockServerConfig.AutoScanOpenID = "oCLI"
	})
	t.Setenv("STORAGECONFIG_DRIVER", "memory")
	t.Setenv("ZAPCONFIG_LEVEL", "error")

	out, err := run(t, mock, "login", "wechat", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "请使用微信扫描二维码")
	assert.Contains(t, out, "openId: oCLI")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GATEWAYCONFIG_BASE_URL", "http://example.test/api")
	t.Setenv("TRACERCONFIG_ENABLED", "true")
	t.Setenv("JWTCONFIG_SECRET_KEY", "s3cret")

	c := config.Default()
	fields := applyEnvOverrides(&c)
	assert.Equal(t, "http://example.test/api", c.GatewayConfig.BaseURL)
	assert.True(t, c.TracerConfig.Enabled)
	assert.Equal(t, "s3cret", c.JWTConfig.SecretKey)
	assert.ElementsMatch(t, []string{"GatewayConfig.BaseURL", "TracerConfig.Enabled", "JWTConfig.SecretKey"}, fields)
}
