package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/service/mockbackend"
	"github.com/Xushengqwer/codefix_portal/utils"
)

type testApp struct {
	engine  *gin.Engine
	backend *mockbackend.Backend
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterCustomValidators())
	cfg := config.Default()
	logger := core.NewNopLogger()
	jwtUtil := dependencies.NewJWTUtility(&cfg.JWTConfig)
	backend := mockbackend.NewBackend(&cfg.MockServerConfig, jwtUtil, logger)
	return &testApp{engine: SetupRouter(logger, &cfg, jwtUtil, backend), backend: backend}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func TestGetInfo_RequiresBearer(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/auth/getInfo", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	res := gjson.ParseBytes(w.Body.Bytes())
	assert.Equal(t, int64(401), res.Get("code").Int())
	assert.False(t, res.Get("success").Bool())
	assert.Equal(t, "请先登录", res.Get("message").String())
	assert.Equal(t, gjson.Null, res.Get("data").Type)

	w = app.do(t, http.MethodGet, "/api/auth/getInfo", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "登录已失效，请重新登录", gjson.GetBytes(w.Body.Bytes(), "message").String())
}

func TestPhoneLoginFlow(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/auth/captcha", map[string]string{"color": "#fff"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.GetBytes(w.Body.Bytes(), "data.svgCode").Exists())

	w = app.do(t, http.MethodPost, "/api/auth/sendPhoneCode", map[string]any{"phone": "12345", "captchaCode": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/auth/sendPhoneCode", map[string]any{"phone": "13800138000", "captchaCode": "x", "captchaId": nil}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gjson.Null, gjson.GetBytes(w.Body.Bytes(), "data").Type)

	w = app.do(t, http.MethodPost, "/api/auth/loginByPhoneCapter", map[string]string{"phone": "13800138000", "phoneCode": "123456"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := gjson.GetBytes(w.Body.Bytes(), "data").String()
	require.NotEmpty(t, token)

	w = app.do(t, http.MethodGet, "/api/auth/getInfo", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	res := gjson.ParseBytes(w.Body.Bytes())
	assert.True(t, res.Get("success").Bool())
	assert.Equal(t, "13800138000", res.Get("data.userInfo.phone").String())
	assert.Equal(t, gjson.Null, res.Get("data.userBalance.codeExpirationDate").Type)
}

func TestPackagesAndOrders(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/crami/queryAllPackage?status=1&size=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := gjson.ParseBytes(w.Body.Bytes())
	assert.Equal(t, int64(3), res.Get("data.count").Int())
	assert.Len(t, res.Get("data.rows").Array(), 2)

	w = app.do(t, http.MethodPost, "/api/order/buy", map[string]any{"goodsId": 1, "payType": "wxpay"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/mock/pay", map[string]string{"orderId": "missing"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "订单不存在", gjson.GetBytes(w.Body.Bytes(), "message").String())
}

func TestCodefix_RawResponses(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/codefix/fix", map[string]string{"code": "f(", "add_info": ""}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := gjson.ParseBytes(w.Body.Bytes())
	assert.False(t, res.Get("success").Exists(), "纠错接口不包裹统一响应体")
	assert.Equal(t, "f()", res.Get("correct_code").String())

	w = app.do(t, http.MethodPost, "/api/codefix/fix", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code 不能为空", gjson.GetBytes(w.Body.Bytes(), "message").String())
}
