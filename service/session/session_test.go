package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/repository"
	"github.com/Xushengqwer/codefix_portal/service/auth"
	"github.com/Xushengqwer/codefix_portal/service/payment"
	"github.com/Xushengqwer/codefix_portal/service/wechat"
	"github.com/Xushengqwer/codefix_portal/state"
	"github.com/Xushengqwer/codefix_portal/testutil"
)

const testPhone = "13500135000"

type fixture struct {
	mock     *testutil.MockServer
	tokens   repository.TokenStore
	users    *state.UserStore
	payments *state.PaymentStore
	svc      SessionService
}

func newFixture(t *testing.T, mutate ...func(*config.CodefixConfig)) *fixture {
	t.Helper()
	mock := testutil.NewMockServer(t, mutate...)
	return newFixtureAt(t, mock, mock.BaseURL())
}

// newFixtureAt 网关指向 baseURL，mock 仍用于直接操作后端状态。
func newFixtureAt(t *testing.T, mock *testutil.MockServer, baseURL string) *fixture {
	t.Helper()
	gw, tokens := testutil.NewGateway(t, baseURL)
	logger := core.NewNopLogger()
	users := state.NewUserStore()
	payments := state.NewPaymentStore()
	svc := NewSessionService(
		auth.NewAuthService(gw, logger),
		wechat.NewWechatService(gw, logger),
		payment.NewPaymentService(gw, logger),
		tokens, users, payments, logger,
	)
	return &fixture{mock: mock, tokens: tokens, users: users, payments: payments, svc: svc}
}

func (f *fixture) login(t *testing.T) state.UserState {
	t.Helper()
	require.NoError(t, f.mock.Backend.SendPhoneCode(dto.SendSmsParams{Phone: testPhone, CaptchaCode: "x"}))
	st, err := f.svc.LoginByPhone(context.Background(), dto.LoginParams{Phone: testPhone, PhoneCode: testutil.SmsCode})
	require.NoError(t, err)
	return st
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.GetToken(context.Background())
	require.NoError(t, err)
	return token
}

func TestLoginByPhone(t *testing.T) {
	f := newFixture(t)
	st := f.login(t)

	require.True(t, st.LoggedIn())
	assert.Equal(t, testPhone, st.UserInfo.Phone)
	assert.Equal(t, uint64(1), st.Version)
	assert.NotEmpty(t, f.token(t))
	assert.Equal(t, st.UserInfo.ID, f.users.Snapshot().UserInfo.ID)
}

func TestLoginByPhone_WrongCodeLeavesNoToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mock.Backend.SendPhoneCode(dto.SendSmsParams{Phone: testPhone, CaptchaCode: "x"}))

	_, err := f.svc.LoginByPhone(context.Background(), dto.LoginParams{Phone: testPhone, PhoneCode: "000000"})
	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "短信验证码错误或已过期", apiErr.Message)
	assert.Empty(t, f.token(t))
	assert.False(t, f.users.Snapshot().LoggedIn())
}

func TestLoginWithToken_InvalidTokenRolledBack(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.LoginWithToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Empty(t, f.token(t))
	assert.False(t, f.users.Snapshot().LoggedIn())

	_, err = f.svc.LoginWithToken(context.Background(), "")
	require.ErrorIs(t, err, commonerrors.ErrEmptyToken)
}

func TestLoginWithToken_InvalidTokenKeepsPreviousLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.login(t)
	token := f.token(t)

	_, err := f.svc.LoginWithToken(ctx, "garbage")
	var apiErr *gateway.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)

	assert.Equal(t, token, f.token(t))
	require.True(t, f.users.Snapshot().LoggedIn())
	assert.Equal(t, before.UserInfo.ID, f.users.Snapshot().UserInfo.ID)

	// 恢复的令牌仍然可用
	st, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, testPhone, st.UserInfo.Phone)
}

func TestLoginByWechat_BindRequiredThenBind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sceneStr := f.mock.Backend.NewScene()
	_, err := f.mock.Backend.SimulateScan(dto.MockScanRequest{SceneStr: sceneStr, OpenID: "oNew"})
	require.NoError(t, err)

	_, err = f.svc.LoginByWechat(ctx, sceneStr, time.Millisecond)
	var bindErr *BindRequiredError
	require.True(t, errors.As(err, &bindErr))
	assert.Equal(t, "oNew", bindErr.OpenID)
	assert.Empty(t, f.token(t))

	require.NoError(t, f.mock.Backend.SendPhoneCode(dto.SendSmsParams{Phone: testPhone, CaptchaCode: "x"}))
	st, err := f.svc.BindPhone(ctx, dto.BindPhoneParams{Phone: testPhone, PhoneCode: testutil.SmsCode, OpenID: bindErr.OpenID})
	require.NoError(t, err)
	assert.True(t, st.UserInfo.IsBindWx)

	// 再次扫码时已绑定，直接登录
	require.NoError(t, f.svc.Logout(ctx))
	sceneStr = f.mock.Backend.NewScene()
	_, err = f.mock.Backend.SimulateScan(dto.MockScanRequest{SceneStr: sceneStr, OpenID: "oNew"})
	require.NoError(t, err)
	st, err = f.svc.LoginByWechat(ctx, sceneStr, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, testPhone, st.UserInfo.Phone)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.payments.SetPayDialog(true)

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.Empty(t, f.token(t))
	assert.False(t, f.users.Snapshot().LoggedIn())
	assert.False(t, f.payments.Snapshot().PayDialog)
}

func TestBootstrap_Anonymous(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.False(t, res.User.LoggedIn())
	require.Len(t, res.Packages, 3)
	assert.Equal(t, res.Packages[0], f.payments.Snapshot().OrderInfo.PkgInfo)
}

func TestBootstrap_KeepsSelectedPackage(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	first, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	require.True(t, first.User.LoggedIn())
	f.payments.SetOrderInfo(vo.OrderInfo{PkgInfo: first.Packages[2]})

	_, err = f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Packages[2].ID, f.payments.Snapshot().OrderInfo.PkgInfo.ID)
}

func TestBootstrap_ExpiredTokenCleared(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.SetToken(context.Background(), "expired.token.value"))

	res, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.False(t, res.User.LoggedIn())
	assert.Empty(t, f.token(t))
	assert.NotEmpty(t, res.Packages)
}

func TestBootstrap_LoadsPayConfigFromBackend(t *testing.T) {
	f := newFixture(t, func(c *config.CodefixConfig) { c.MockServerConfig.PayWechatOn = false })
	f.login(t)

	res, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []enums.PayPlatform{enums.PlatformAlipay}, f.payments.Snapshot().PayPlatforms())

	_, err = f.svc.Checkout(context.Background(), res.Packages[0], enums.PlatformWechat, "")
	require.ErrorIs(t, err, commonerrors.ErrPlatformDisabled)
	var apiErr *gateway.APIError
	assert.False(t, errors.As(err, &apiErr), "rejected locally, not by the backend")

	order, err := f.svc.Checkout(context.Background(), res.Packages[0], enums.PlatformAlipay, "")
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
}

func TestBootstrap_ProfileErrorKeepsPackages(t *testing.T) {
	mock := testutil.NewMockServer(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/"+auth.PathGetInfo {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mock.Server.Config.Handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	f := newFixtureAt(t, mock, srv.URL+"/api")
	require.NoError(t, f.tokens.SetToken(context.Background(), "still.valid.token"))

	res, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)
	var apiErr *gateway.APIError
	require.True(t, errors.As(res.ProfileErr, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
	assert.Len(t, res.Packages, 3)
	assert.Equal(t, "still.valid.token", f.token(t), "only 401 clears the token")
}

func TestCheckout_DisabledPlatform(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	off := 0
	f.payments.UpdateConfig(state.ConfigPatch{PayWechatStatus: &off})
	before := f.payments.Snapshot()

	pkg := f.mock.Backend.Packages(1, 30).Rows[0].ToPackage()
	_, err := f.svc.Checkout(context.Background(), pkg, enums.PlatformWechat, "")
	require.ErrorIs(t, err, commonerrors.ErrPlatformDisabled)
	assert.False(t, f.payments.Snapshot().PayDialog)
	assert.Equal(t, before.GlobalConfig, f.payments.Snapshot().GlobalConfig)
}

func TestCheckoutAndComplete(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := f.svc.Bootstrap(ctx)
	require.NoError(t, err)
	pkg := res.Packages[1]
	f.payments.SetGoodsDialog(true)

	order, err := f.svc.Checkout(ctx, pkg, enums.PlatformAlipay, "pc")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderUnpaid, order.Status)
	assert.Contains(t, order.URLQRCode, "alipay")
	snap := f.payments.Snapshot()
	assert.True(t, snap.PayDialog)
	assert.False(t, snap.GoodsDialog)
	assert.Equal(t, pkg, snap.OrderInfo.PkgInfo)
	assert.Nil(t, f.users.Snapshot().UserBalance.CodeExpirationDate)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = f.mock.Backend.SimulatePaid(order.OrderID)
	}()
	paid, err := f.svc.CompleteCheckout(ctx, order.OrderID, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderPaid, paid.Status)
	assert.False(t, f.payments.Snapshot().PayDialog)

	balance := f.users.Snapshot().UserBalance
	require.NotNil(t, balance.CodeExpirationDate)
	assert.Equal(t, pkg.ID, balance.PackageID)
	assert.True(t, f.users.Snapshot().CodeFixMemberAt(time.Now()))
}

func TestCheckout_NotLoggedIn(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Bootstrap(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), res.Packages[0], enums.PlatformAlipay, "")
	require.ErrorIs(t, err, commonerrors.ErrNoToken)
}
