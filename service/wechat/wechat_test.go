package wechat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/testutil"
)

func TestSceneAndQRCode(t *testing.T) {
	mock := testutil.NewMockServer(t)
	gw, _ := testutil.NewGateway(t, mock.BaseURL())
	svc := NewWechatService(gw, core.NewNopLogger())
	ctx := context.Background()

	scene, err := svc.GetQRSceneStr(ctx)
	require.NoError(t, err)
	require.True(t, scene.Success)
	require.NotNil(t, scene.Data)

	qr, err := svc.GetQRCode(ctx, *scene.Data)
	require.NoError(t, err)
	require.True(t, qr.Success)
	assert.Contains(t, *qr.Data, *scene.Data)

	unknown, err := svc.GetQRCode(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, unknown.Success)
	assert.Equal(t, "二维码已失效，请刷新", unknown.Message)

	_, err = svc.GetQRCode(ctx, "")
	require.ErrorIs(t, err, commonerrors.ErrInvalidParam)
}

func TestWaitForLogin_UnboundReturnsOpenID(t *testing.T) {
	mock := testutil.NewMockServer(t)
	gw, _ := testutil.NewGateway(t, mock.BaseURL())
	svc := NewWechatService(gw, core.NewNopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	scene, err := svc.GetQRSceneStr(ctx)
	require.NoError(t, err)

	status, err := svc.CheckLoginStatus(ctx, *scene.Data)
	require.NoError(t, err)
	require.True(t, status.Success)
	assert.False(t, status.Data.Done())

	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = mock.Backend.SimulateScan(dto.MockScanRequest{SceneStr: *scene.Data, OpenID: "oTest"})
	}()

	result, err := svc.WaitForLogin(ctx, *scene.Data, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "oTest", result.OpenID)
	assert.Empty(t, result.Token)
}

func TestWaitForLogin_BoundReturnsToken(t *testing.T) {
	mock := testutil.NewMockServer(t)
	gw, _ := testutil.NewGateway(t, mock.BaseURL())
	svc := NewWechatService(gw, core.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, mock.Backend.SendPhoneCode(dto.SendSmsParams{Phone: "13900139000", CaptchaCode: "x"}))
	_, err := mock.Backend.BindOpenID(dto.BindPhoneParams{Phone: "13900139000", PhoneCode: testutil.SmsCode, OpenID: "oBound"})
	require.NoError(t, err)

	sceneStr := mock.Backend.NewScene()
	_, err = mock.Backend.SimulateScan(dto.MockScanRequest{SceneStr: sceneStr, OpenID: "oBound"})
	require.NoError(t, err)

	result, err := svc.WaitForLogin(ctx, sceneStr, time.Millisecond)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "oBound", result.OpenID)
}

func TestWaitForLogin_ContextCancelled(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		_, _ = w.Write([]byte(`{"code":200,"success":true,"message":"","data":{}}`))
	}))
	defer srv.Close()
	gw, _ := testutil.NewGateway(t, srv.URL)
	svc := NewWechatService(gw, core.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err := svc.WaitForLogin(ctx, "scene", 10*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestWaitForLogin_FailedEnvelopeKeepsPolling(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"success":true,"message":"","data":{"token":"t-1"}}`))
	}))
	defer srv.Close()
	gw, _ := testutil.NewGateway(t, srv.URL)
	svc := NewWechatService(gw, core.NewNopLogger())

	result, err := svc.WaitForLogin(context.Background(), "scene", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "t-1", result.Token)
	assert.Equal(t, int32(3), polls.Load())
}
