package mockbackend

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/enums"
)

func newTestBackend(t *testing.T, now time.Time) *Backend {
	t.Helper()
	cfg := config.Default()
	cfg.MockServerConfig.SmsCodeForTest = "654321"
	b := NewBackend(&cfg.MockServerConfig, dependencies.NewJWTUtility(&cfg.JWTConfig), core.NewNopLogger())
	b.now = func() time.Time { return now }
	return b
}

func requireBizStatus(t *testing.T, err error, status int) {
	t.Helper()
	var biz *BizError
	require.True(t, errors.As(err, &biz), "want *BizError, got %v", err)
	assert.Equal(t, status, biz.Status)
}

func TestCheckBrackets(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantLocation string
		wantCode     string
	}{
		{name: "配对", code: "f(a[1]) { }", wantLocation: "未发现语法错误", wantCode: "f(a[1]) { }"},
		{name: "缺少右括号", code: "if (a {\n", wantLocation: "第 2 行: 缺少 2 个右括号", wantCode: "if (a {\n})"},
		{name: "多余右括号", code: "a\nb)", wantLocation: "第 2 行: 多余的 ')'", wantCode: "a\nb)"},
		{name: "嵌套顺序错误", code: "([)]", wantLocation: "第 1 行: 多余的 ')'", wantCode: "([)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, fixed := checkBrackets(tt.code)
			assert.Equal(t, tt.wantLocation, location)
			assert.Equal(t, tt.wantCode, fixed)
		})
	}
}

func TestSendPhoneCode_Captcha(t *testing.T) {
	b := newTestBackend(t, time.Now())
	captcha := b.Captcha(dto.CaptchaRequest{Color: "#fff"})
	assert.Contains(t, captcha.SvgCode, "#fff")

	wrong := "zzzz"
	err := b.SendPhoneCode(dto.SendSmsParams{Phone: "13800138000", CaptchaCode: wrong, CaptchaID: &captcha.Code})
	requireBizStatus(t, err, http.StatusBadRequest)

	code := b.captchas[captcha.Code]
	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: "13800138000", CaptchaCode: code, CaptchaID: &captcha.Code}))
	assert.Equal(t, "654321", b.smsCodes["13800138000"])

	// 验证码只能使用一次
	err = b.SendPhoneCode(dto.SendSmsParams{Phone: "13800138000", CaptchaCode: code, CaptchaID: &captcha.Code})
	requireBizStatus(t, err, http.StatusBadRequest)
}

func TestLoginByPhone_RegistersOnceAndConsumesCode(t *testing.T) {
	b := newTestBackend(t, time.Now())
	phone := "13800138000"

	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: phone, CaptchaCode: "x"}))
	token, err := b.LoginByPhone(dto.LoginParams{Phone: phone, PhoneCode: "654321"})
	require.NoError(t, err)
	claims, err := b.jwt.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)

	_, err = b.LoginByPhone(dto.LoginParams{Phone: phone, PhoneCode: "654321"})
	requireBizStatus(t, err, http.StatusBadRequest)

	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: phone, CaptchaCode: "x"}))
	_, err = b.LoginByPhone(dto.LoginParams{Phone: phone, PhoneCode: "654321"})
	require.NoError(t, err)
	assert.Len(t, b.usersByID, 1)

	info, err := b.UserInfo(1)
	require.NoError(t, err)
	assert.Equal(t, "用户8000", info.UserInfo.Username)

	_, err = b.UserInfo(42)
	requireBizStatus(t, err, http.StatusUnauthorized)
}

func TestBindOpenID_Conflict(t *testing.T) {
	b := newTestBackend(t, time.Now())
	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: "13800138000", CaptchaCode: "x"}))
	_, err := b.BindOpenID(dto.BindPhoneParams{Phone: "13800138000", PhoneCode: "654321", OpenID: "oA"})
	require.NoError(t, err)

	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: "13900139000", CaptchaCode: "x"}))
	_, err = b.BindOpenID(dto.BindPhoneParams{Phone: "13900139000", PhoneCode: "654321", OpenID: "oA"})
	requireBizStatus(t, err, http.StatusConflict)
}

func TestSimulatePaid_ExtendsMembership(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	b := newTestBackend(t, now)
	require.NoError(t, b.SendPhoneCode(dto.SendSmsParams{Phone: "13800138000", CaptchaCode: "x"}))
	_, err := b.LoginByPhone(dto.LoginParams{Phone: "13800138000", PhoneCode: "654321"})
	require.NoError(t, err)
	assert.False(t, b.HasActiveMembership(1))

	first, err := b.BuyOrder(1, dto.OrderBuyParams{GoodsID: 1, PayType: "wxpay"})
	require.NoError(t, err)
	paid, err := b.SimulatePaid(first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPaid, paid.Status)
	assert.Equal(t, "2024-05-08 08:00:00", *b.usersByID[1].balance.CodeExpirationDate)
	assert.True(t, b.HasActiveMembership(1))

	// 重复通知不会再次顺延
	_, err = b.SimulatePaid(first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-08 08:00:00", *b.usersByID[1].balance.CodeExpirationDate)

	// 未过期时从原到期时间顺延
	second, err := b.BuyOrder(1, dto.OrderBuyParams{GoodsID: 2, PayType: "alipay"})
	require.NoError(t, err)
	_, err = b.SimulatePaid(second.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-07 08:00:00", *b.usersByID[1].balance.CodeExpirationDate)
	assert.Equal(t, 2, b.usersByID[1].balance.PackageID)

	_, err = b.QueryOrder(2, second.OrderID)
	requireBizStatus(t, err, http.StatusNotFound)
}

func TestPackages_FilterAndSize(t *testing.T) {
	b := newTestBackend(t, time.Now())
	list := b.Packages(1, 2)
	assert.Equal(t, 3, list.Count)
	assert.Len(t, list.Rows, 2)

	assert.Empty(t, b.Packages(2, 30).Rows)
}

func TestScene(t *testing.T) {
	b := newTestBackend(t, time.Now())
	sceneStr := b.NewScene()

	res, err := b.CheckScene(sceneStr)
	require.NoError(t, err)
	assert.False(t, res.Done())

	openID, err := b.SimulateScan(dto.MockScanRequest{SceneStr: sceneStr})
	require.NoError(t, err)
	assert.Len(t, openID, 28)

	res, err = b.CheckScene(sceneStr)
	require.NoError(t, err)
	assert.Equal(t, openID, res.OpenID)
	assert.Empty(t, res.Token)

	_, err = b.CheckScene("missing")
	requireBizStatus(t, err, http.StatusBadRequest)
}

func TestNewScene_AutoScan(t *testing.T) {
	b := newTestBackend(t, time.Now())
	b.cfg.AutoScanOpenID = "oAuto"

	res, err := b.CheckScene(b.NewScene())
	require.NoError(t, err)
	assert.Equal(t, "oAuto", res.OpenID)
}
