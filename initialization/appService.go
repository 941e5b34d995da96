package initialization

import (
	"github.com/Xushengqwer/codefix_portal/service/auth"
	"github.com/Xushengqwer/codefix_portal/service/codefix"
	"github.com/Xushengqwer/codefix_portal/service/payment"
	"github.com/Xushengqwer/codefix_portal/service/session"
	"github.com/Xushengqwer/codefix_portal/service/wechat"
	"github.com/Xushengqwer/codefix_portal/state"
)

// AppServices 封装了客户端的全部服务与状态容器。
type AppServices struct {
	Auth    auth.AuthService
	Wechat  wechat.WechatService
	Payment payment.PaymentService
	Codefix codefix.CodefixService
	Session session.SessionService

	Users    *state.UserStore
	Payments *state.PaymentStore
}

// SetupServices 创建状态容器并初始化所有服务。
func SetupServices(deps *AppDependencies) *AppServices {
	users := state.NewUserStore()
	payments := state.NewPaymentStore()

	authService := auth.NewAuthService(deps.Gateway, deps.Logger)
	wechatService := wechat.NewWechatService(deps.Gateway, deps.Logger)
	paymentService := payment.NewPaymentService(deps.Gateway, deps.Logger)
	codefixService := codefix.NewCodefixService(deps.Gateway, users, deps.Logger)

	sessionService := session.NewSessionService(
		authService,
		wechatService,
		paymentService,
		deps.Tokens,
		users,
		payments,
		deps.Logger,
	)

	return &AppServices{
		Auth:     authService,
		Wechat:   wechatService,
		Payment:  paymentService,
		Codefix:  codefixService,
		Session:  sessionService,
		Users:    users,
		Payments: payments,
	}
}
