// Package mockbackend 在内存中模拟门户后端的业务数据，供本地联调与端到端测试使用。
// 数据不落盘，进程退出即丢失。
package mockbackend

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
)

// expirationLayout 会员到期时间的格式，与线上后端一致。
const expirationLayout = "2006-01-02 15:04:05"

// BizError 业务错误，Status 为应答的 HTTP 状态码。
type BizError struct {
	Status  int
	Message string
}

func (e *BizError) Error() string { return e.Message }

func bizErr(status int, msg string) *BizError {
	return &BizError{Status: status, Message: msg}
}

type user struct {
	info    vo.UserInfo
	balance vo.UserBalance
	openID  string
}

type scene struct {
	openID  string
	scanned bool
}

type order struct {
	id        string
	userID    int
	goodsID   int
	channel   enums.PayChannel
	status    enums.OrderStatus
	createdAt time.Time
}

// Backend mock 后端的全部状态，并发安全。
type Backend struct {
	cfg    *config.MockServerConfig
	jwt    dependencies.JWTTokenInterface
	logger *core.ZapLogger
	now    func() time.Time

	mu         sync.Mutex
	captchas   map[string]string // captchaId -> code
	smsCodes   map[string]string // phone -> code
	usersByID  map[int]*user
	usersByTel map[string]*user
	usersByOID map[string]*user
	scenes     map[string]*scene
	orders     map[string]*order
	packages   []vo.PackageRow
	nextUserID int
}

// NewBackend 创建 mock 后端，预置一组在售套餐。
func NewBackend(cfg *config.MockServerConfig, jwt dependencies.JWTTokenInterface, logger *core.ZapLogger) *Backend {
	return &Backend{
		cfg:        cfg,
		jwt:        jwt,
		logger:     logger,
		now:        time.Now,
		captchas:   make(map[string]string),
		smsCodes:   make(map[string]string),
		usersByID:  make(map[int]*user),
		usersByTel: make(map[string]*user),
		usersByOID: make(map[string]*user),
		scenes:     make(map[string]*scene),
		orders:     make(map[string]*order),
		packages:   defaultPackages(),
		nextUserID: 1,
	}
}

func defaultPackages() []vo.PackageRow {
	created := "2024-09-01 00:00:00"
	return []vo.PackageRow{
		{ID: 1, Name: "体验卡", Des: "代码纠错高级模式 7 天", Price: "9.90", OriginalPrice: "19.90", Days: 7, Status: 1, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Name: "月卡", Des: "代码纠错高级模式 30 天", Price: "29.90", OriginalPrice: "59.90", Days: 30, Status: 1, CreatedAt: created, UpdatedAt: created},
		{ID: 3, Name: "365", Des: "代码纠错高级模式一年", Price: "199.00", OriginalPrice: "399.00", Days: 365, Status: 1, CreatedAt: created, UpdatedAt: created},
	}
}

// ---- 验证码 ----

const captchaAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Captcha 生成一个 4 位图形验证码。
func (b *Backend) Captcha(req dto.CaptchaRequest) vo.CaptchaResult {
	code := randomString(captchaAlphabet, 4)
	id := uuid.NewString()

	b.mu.Lock()
	b.captchas[id] = code
	b.mu.Unlock()

	color := req.Color
	if color == "" {
		color = "#000"
	}
	return vo.CaptchaResult{SvgCode: renderCaptchaSVG(code, color), Code: id}
}

// SendPhoneCode 校验图形验证码后下发短信验证码。
// - captchaId 为空时只要求 captchaCode 非空。
func (b *Backend) SendPhoneCode(req dto.SendSmsParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if req.CaptchaID != nil && *req.CaptchaID != "" {
		want, ok := b.captchas[*req.CaptchaID]
		if !ok || !strings.EqualFold(want, req.CaptchaCode) {
			return bizErr(http.StatusBadRequest, "图形验证码错误")
		}
		delete(b.captchas, *req.CaptchaID)
	}

	code := b.cfg.SmsCodeForTest
	if code == "" {
		code = randomString("0123456789", 6)
	}
	b.smsCodes[req.Phone] = code
	b.logger.Info("已下发短信验证码", zap.String("phone", req.Phone), zap.String("code", code))
	return nil
}

// consumeSmsCode 调用方需持有 b.mu。
func (b *Backend) consumeSmsCode(phone, code string) error {
	want, ok := b.smsCodes[phone]
	if !ok || want != code {
		return bizErr(http.StatusBadRequest, "短信验证码错误或已过期")
	}
	delete(b.smsCodes, phone)
	return nil
}

// ---- 登录与用户 ----

// LoginByPhone 校验短信验证码，手机号不存在时自动注册，返回访问令牌。
func (b *Backend) LoginByPhone(req dto.LoginParams) (string, error) {
	b.mu.Lock()
	if err := b.consumeSmsCode(req.Phone, req.PhoneCode); err != nil {
		b.mu.Unlock()
		return "", err
	}
	u := b.userByPhoneLocked(req.Phone)
	userID := u.info.ID
	b.mu.Unlock()

	return b.issue(userID, req.Phone)
}

// BindOpenID 校验短信验证码后把 openId 绑定到手机号对应的用户上。
func (b *Backend) BindOpenID(req dto.BindPhoneParams) (string, error) {
	b.mu.Lock()
	if err := b.consumeSmsCode(req.Phone, req.PhoneCode); err != nil {
		b.mu.Unlock()
		return "", err
	}
	if owner, ok := b.usersByOID[req.OpenID]; ok && owner.info.Phone != req.Phone {
		b.mu.Unlock()
		return "", bizErr(http.StatusConflict, "该微信已绑定其他手机号")
	}
	u := b.userByPhoneLocked(req.Phone)
	u.openID = req.OpenID
	u.info.IsBindWx = true
	b.usersByOID[req.OpenID] = u
	userID := u.info.ID
	b.mu.Unlock()

	return b.issue(userID, req.Phone)
}

// userByPhoneLocked 调用方需持有 b.mu。
func (b *Backend) userByPhoneLocked(phone string) *user {
	if u, ok := b.usersByTel[phone]; ok {
		return u
	}
	id := b.nextUserID
	b.nextUserID++
	u := &user{
		info: vo.UserInfo{
			ID:            id,
			Username:      "用户" + phone[len(phone)-4:],
			Phone:         phone,
			InviteCode:    randomString(captchaAlphabet, 6),
			Role:          "viewer",
			UsePermission: 1,
		},
		balance: vo.UserBalance{Model3Count: 10, SumModel3Count: 10},
	}
	b.usersByID[id] = u
	b.usersByTel[phone] = u
	b.logger.Info("mock 后端注册新用户", zap.Int("userId", id), zap.String("phone", phone))
	return u
}

func (b *Backend) issue(userID int, phone string) (string, error) {
	token, err := b.jwt.GenerateAccessToken(userID, phone)
	if err != nil {
		b.logger.Error("签发令牌失败", zap.Int("userId", userID), zap.Error(err))
		return "", bizErr(http.StatusInternalServerError, "系统内部错误")
	}
	return token, nil
}

// UserInfo 返回用户信息与余额。
func (b *Backend) UserInfo(userID int) (vo.GetInfoResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.usersByID[userID]
	if !ok {
		return vo.GetInfoResponse{}, bizErr(http.StatusUnauthorized, "用户不存在，请重新登录")
	}
	return vo.GetInfoResponse{UserInfo: u.info, UserBalance: u.balance}, nil
}

// HasActiveMembership 用户的代码纠错会员是否未过期。
func (b *Backend) HasActiveMembership(userID int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.usersByID[userID]
	if !ok || u.balance.CodeExpirationDate == nil {
		return false
	}
	expireAt, err := time.ParseInLocation(expirationLayout, *u.balance.CodeExpirationDate, time.Local)
	return err == nil && expireAt.After(b.now())
}

// ---- 公众号扫码 ----

// NewScene 生成一个新的扫码场景值。
// - 配置了 AutoScanOpenID 时场景值直接处于已扫码状态。
func (b *Backend) NewScene() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	sc := &scene{}
	if b.cfg.AutoScanOpenID != "" {
		sc.openID = b.cfg.AutoScanOpenID
		sc.scanned = true
	}
	b.mu.Lock()
	b.scenes[s] = sc
	b.mu.Unlock()
	return s
}

// QRCodeURL 返回场景值对应的二维码地址。
func (b *Backend) QRCodeURL(sceneStr string) (string, error) {
	b.mu.Lock()
	_, ok := b.scenes[sceneStr]
	b.mu.Unlock()
	if !ok {
		return "", bizErr(http.StatusBadRequest, "二维码已失效，请刷新")
	}
	return "https://mp.weixin.qq.com/cgi-bin/showqrcode?ticket=" + sceneStr, nil
}

// CheckScene 查询扫码状态；未扫码时返回空结果。
func (b *Backend) CheckScene(sceneStr string) (vo.WechatLoginResult, error) {
	b.mu.Lock()
	sc, ok := b.scenes[sceneStr]
	if !ok {
		b.mu.Unlock()
		return vo.WechatLoginResult{}, bizErr(http.StatusBadRequest, "二维码已失效，请刷新")
	}
	if !sc.scanned {
		b.mu.Unlock()
		return vo.WechatLoginResult{}, nil
	}
	u, bound := b.usersByOID[sc.openID]
	if !bound {
		openID := sc.openID
		b.mu.Unlock()
		return vo.WechatLoginResult{OpenID: openID}, nil
	}
	userID, phone := u.info.ID, u.info.Phone
	b.mu.Unlock()

	token, err := b.issue(userID, phone)
	if err != nil {
		return vo.WechatLoginResult{}, err
	}
	return vo.WechatLoginResult{Token: token, OpenID: sc.openID}, nil
}

// SimulateScan 模拟用户扫码确认，返回本次使用的 openId。
func (b *Backend) SimulateScan(req dto.MockScanRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, ok := b.scenes[req.SceneStr]
	if !ok {
		return "", bizErr(http.StatusBadRequest, "二维码已失效，请刷新")
	}
	openID := req.OpenID
	if openID == "" {
		openID = "o" + randomString(captchaAlphabet, 27)
	}
	sc.openID = openID
	sc.scanned = true
	return openID, nil
}

// ---- 订单与套餐 ----

// Packages 返回在售套餐。
func (b *Backend) Packages(status, size int) vo.PackageList {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]vo.PackageRow, 0, len(b.packages))
	for _, p := range b.packages {
		if status != 0 && p.Status != status {
			continue
		}
		rows = append(rows, p)
	}
	count := len(rows)
	if size > 0 && len(rows) > size {
		rows = rows[:size]
	}
	return vo.PackageList{Rows: rows, Count: count}
}

// PayConfig 返回当前启用的支付平台。
func (b *Backend) PayConfig() vo.PayConfig {
	return vo.PayConfig{
		PayWechatStatus: switchStatus(b.cfg.PayWechatOn),
		PayAliStatus:    switchStatus(b.cfg.PayAliOn),
	}
}

func switchStatus(on bool) *int {
	v := 0
	if on {
		v = enums.PlatformSwitchOn
	}
	return &v
}

// BuyOrder 创建待支付订单。
func (b *Backend) BuyOrder(userID int, req dto.OrderBuyParams) (vo.OrderResult, error) {
	channel := enums.PayChannel(req.PayType)
	if (channel == enums.ChannelWxpay && !b.cfg.PayWechatOn) || (channel == enums.ChannelAlipay && !b.cfg.PayAliOn) {
		return vo.OrderResult{}, bizErr(http.StatusBadRequest, "该支付方式暂未开放")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.usersByID[userID]; !ok {
		return vo.OrderResult{}, bizErr(http.StatusUnauthorized, "用户不存在，请重新登录")
	}
	if _, ok := b.packageLocked(req.GoodsID); !ok {
		return vo.OrderResult{}, bizErr(http.StatusBadRequest, "套餐不存在")
	}
	o := &order{
		id:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		userID:    userID,
		goodsID:   req.GoodsID,
		channel:   channel,
		status:    enums.OrderUnpaid,
		createdAt: b.now(),
	}
	b.orders[o.id] = o
	b.logger.Info("mock 后端创建订单", zap.String("orderId", o.id), zap.Int("userId", userID), zap.Int("goodsId", req.GoodsID))
	return toOrderResult(o), nil
}

// QueryOrder 查询本人订单。
func (b *Backend) QueryOrder(userID int, orderID string) (vo.OrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	if !ok || o.userID != userID {
		return vo.OrderResult{}, bizErr(http.StatusNotFound, "订单不存在")
	}
	return toOrderResult(o), nil
}

// SimulatePaid 模拟支付成功：订单置为已支付，并顺延用户的代码纠错会员。
func (b *Backend) SimulatePaid(orderID string) (vo.OrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	if !ok {
		return vo.OrderResult{}, bizErr(http.StatusNotFound, "订单不存在")
	}
	if o.status == enums.OrderPaid {
		return toOrderResult(o), nil
	}
	pkg, _ := b.packageLocked(o.goodsID)
	u := b.usersByID[o.userID]

	start := b.now()
	if u.balance.CodeExpirationDate != nil {
		if cur, err := time.ParseInLocation(expirationLayout, *u.balance.CodeExpirationDate, time.Local); err == nil && cur.After(start) {
			start = cur
		}
	}
	expireAt := start.AddDate(0, 0, pkg.Days).Format(expirationLayout)
	u.balance.CodeExpirationDate = &expireAt
	u.balance.PackageID = pkg.ID
	o.status = enums.OrderPaid
	b.logger.Info("mock 订单已支付", zap.String("orderId", orderID), zap.String("codeExpirationDate", expireAt))
	return toOrderResult(o), nil
}

// packageLocked 调用方需持有 b.mu。
func (b *Backend) packageLocked(id int) (vo.PackageRow, bool) {
	for _, p := range b.packages {
		if p.ID == id {
			return p, true
		}
	}
	return vo.PackageRow{}, false
}

func toOrderResult(o *order) vo.OrderResult {
	qr := "weixin://wxpay/bizpayurl?pr=" + o.id
	if o.channel == enums.ChannelAlipay {
		qr = "https://qr.alipay.com/" + o.id
	}
	return vo.OrderResult{URLQRCode: qr, OrderID: o.id, Status: o.status}
}

// ---- 代码纠错 ----

// Correct 给出一个确定性的纠错结果：只检查括号是否配对。
func (b *Backend) Correct(req dto.CorrectionRequest, advanced bool) vo.CorrectionResponse {
	mode := "普通模式"
	if advanced {
		mode = "高级模式"
	}
	location, fixed := checkBrackets(req.Code)
	knowledge := fmt.Sprintf("[%s] 括号必须成对出现，且嵌套顺序一致。", mode)
	if req.AddInfo != "" {
		knowledge += " 补充说明: " + req.AddInfo
	}
	return vo.CorrectionResponse{ErrorLocation: location, CorrectCode: fixed, RelatedKnowledge: knowledge}
}

// checkBrackets 找到第一处括号错误所在的行，并在末尾补齐缺失的右括号。
func checkBrackets(code string) (string, string) {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	closers := map[rune]rune{'(': ')', '[': ']', '{': '}'}
	var stack []rune
	line := 1
	for _, r := range code {
		switch r {
		case '\n':
			line++
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Sprintf("第 %d 行: 多余的 '%c'", line, r), code
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) == 0 {
		return "未发现语法错误", code
	}
	var sb strings.Builder
	sb.WriteString(code)
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteRune(closers[stack[i]])
	}
	return fmt.Sprintf("第 %d 行: 缺少 %d 个右括号", line, len(stack)), sb.String()
}

// ---- helpers ----

func randomString(alphabet string, n int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = alphabet[0]
			continue
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}

func renderCaptchaSVG(code, color string) string {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="40" viewBox="0,0,120,40">`)
	for i, r := range code {
		fmt.Fprintf(&sb, `<text x="%d" y="28" fill="%s" font-size="24" font-family="monospace">%c</text>`, 12+i*26, color, r)
	}
	sb.WriteString(`</svg>`)
	return sb.String()
}
