// Package gateway 是访问后端 API 的唯一出口。
//
// 每次调用都是一次独立的请求→解析→返回：
//   - 从令牌仓库读取令牌，有令牌时注入 "Authorization: Bearer <token>"
//   - 默认请求头 ∪ 调用方请求头 ∪ 鉴权头（后者优先）
//   - 查询参数按插入顺序编码
//   - 2xx 时原样解析统一响应体；非 2xx 时合成 {code: HTTP状态码, success: false, message, data: null}
//   - 网络层错误直接返回给调用方，不重试、不退避
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/commonerrors"
	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/repository"
)

const defaultFallbackPrefix = "请求失败"

// RequestOptions 单次请求的参数。
type RequestOptions struct {
	// Method HTTP 方法，留空为 GET。
	Method string

	// Body 非 nil 时序列化为 JSON 请求体。
	Body any

	// Headers 调用方附加的请求头，会覆盖同名默认头。
	Headers map[string]string

	// Query 查询参数，通常用于读接口。
	Query Query

	// RequireToken 标记接口需要登录态；本地无令牌时按网关的鉴权策略处理。
	RequireToken bool

	// NullData 覆盖网关默认的空数据策略，nil 表示沿用默认。
	NullData *enums.NullDataPolicy
}

// Gateway 请求网关。
// - 无内部可变状态，可被多个 goroutine 并发使用。
type Gateway struct {
	baseURL        string
	client         *http.Client
	tokens         repository.TokenReader
	headers        map[string]string
	nullData       enums.NullDataPolicy
	authPolicy     enums.AuthPolicy
	fallbackPrefix string
	logger         *core.ZapLogger
}

// NewGateway 根据配置创建网关。
// - httpClient 为 nil 时使用不带超时的默认客户端。
func NewGateway(cfg *config.GatewayConfig, tokens repository.TokenReader, httpClient *http.Client, logger *core.ZapLogger) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: BaseURL 未配置")
	}
	nullData, err := enums.NullDataPolicyFromString(cfg.OnNullData)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	authPolicy, err := enums.AuthPolicyFromString(cfg.AuthPolicy)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}
	fallback := cfg.FallbackPrefix
	if fallback == "" {
		fallback = defaultFallbackPrefix
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Gateway{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		client:         httpClient,
		tokens:         tokens,
		headers:        headers,
		nullData:       nullData,
		authPolicy:     authPolicy,
		fallbackPrefix: fallback,
		logger:         logger,
	}, nil
}

// AuthPolicy 返回网关当前的鉴权策略。
func (g *Gateway) AuthPolicy() enums.AuthPolicy {
	return g.authPolicy
}

// Request 发起请求并把响应解析为统一响应体 Envelope[T]。
//
// 返回值约定:
//   - 网络错误、令牌读取失败、2xx 响应体不是合法 JSON: (nil, error)
//   - 严格鉴权策略下缺少令牌: (nil, commonerrors.ErrNoToken)，不发请求
//   - 非 2xx: (合成的失败响应, nil)
//   - 2xx 且 success 为 true、data 为 null、策略为 reject: (nil, commonerrors.ErrNullData)
//   - 其他 2xx: (解析出的响应, nil)
func Request[T any](ctx context.Context, g *Gateway, path string, opts RequestOptions) (*Envelope[T], error) {
	status, body, err := g.do(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if !isSuccessStatus(status) {
		return failure[T](status, g.failureMessage(status, body)), nil
	}

	var raw struct {
		Code    int             `json:"code"`
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("gateway: 解析响应失败 (%s): %w", path, err)
	}

	env := &Envelope[T]{
		Code:    raw.Code,
		Success: raw.Success,
		Message: raw.Message,
	}
	if isNullJSON(raw.Data) {
		policy := g.nullData
		if opts.NullData != nil {
			policy = *opts.NullData
		}
		if raw.Success && policy == enums.NullDataReject {
			g.logger.Warn("响应声明成功但 data 为空",
				zap.String("path", path),
				zap.Int("code", raw.Code),
			)
			return nil, fmt.Errorf("gateway: %s: %w", path, commonerrors.ErrNullData)
		}
		return env, nil
	}

	var data T
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return nil, fmt.Errorf("gateway: 解析响应 data 失败 (%s): %w", path, err)
	}
	env.Data = &data
	return env, nil
}

// RequestRaw 用于直接返回业务对象、不包裹统一响应体的接口。
// - 非 2xx 返回 *APIError，message 的提取规则与 Request 相同。
func RequestRaw[T any](ctx context.Context, g *Gateway, path string, opts RequestOptions) (*T, error) {
	status, body, err := g.do(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if !isSuccessStatus(status) {
		return nil, &APIError{Code: status, Message: g.failureMessage(status, body)}
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gateway: 解析响应失败 (%s): %w", path, err)
	}
	return &out, nil
}

// do 构造并发送请求，返回状态码与完整响应体。
func (g *Gateway) do(ctx context.Context, path string, opts RequestOptions) (int, []byte, error) {
	// 1. 读取令牌
	token, err := g.tokens.GetToken(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("gateway: 读取令牌失败: %w", err)
	}
	if opts.RequireToken && token == "" && g.authPolicy == enums.AuthStrict {
		return 0, nil, fmt.Errorf("gateway: %s: %w", path, commonerrors.ErrNoToken)
	}

	// 2. 请求体
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var bodyReader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("gateway: 序列化请求体失败 (%s): %w", path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	// 3. 构造请求
	req, err := http.NewRequestWithContext(ctx, method, g.BuildURL(path, opts.Query), bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("gateway: 创建请求失败 (%s): %w", path, err)
	}
	for k, v := range g.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// 4. 发送，单次尝试
	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("请求后端失败",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return 0, nil, fmt.Errorf("gateway: 请求 %s %s 失败: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("gateway: 读取响应体失败 (%s): %w", path, err)
	}

	g.logger.Debug("请求后端完成",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("withToken", token != ""),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.StatusCode, body, nil
}

// BuildURL 拼接后端地址、相对路径与查询参数。
func (g *Gateway) BuildURL(path string, query Query) string {
	u := g.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + encoded
	}
	return u
}

// failureMessage 优先使用响应体中的 message 字段，否则合成 "请求失败: <状态码>"。
func (g *Gateway) failureMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
	}
	return fmt.Sprintf("%s: %d", g.fallbackPrefix, status)
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status <= 299
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
