package codefix

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/codefix_portal/core"
	"github.com/Xushengqwer/codefix_portal/gateway"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/models/vo"
	"github.com/Xushengqwer/codefix_portal/state"
	"github.com/Xushengqwer/codefix_portal/utils"
)

const (
	PathFix    = "codefix/fix"
	PathFixVIP = "codefix/fixOfVIP"
)

// CodefixService 代码纠错。
type CodefixService interface {
	// Correct 提交代码与补充说明，返回错误位置、修正后的代码与相关知识点。
	// - 接口直接返回结果对象，不包裹统一响应体；非 2xx 返回 *gateway.APIError。
	Correct(ctx context.Context, req dto.CorrectionRequest) (*vo.CorrectionResponse, error)

	// Endpoint 返回本次请求会使用的接口路径。
	Endpoint(isAdvanced bool) string
}

type codefixService struct {
	gw     *gateway.Gateway
	users  *state.UserStore
	logger *core.ZapLogger
	now    func() time.Time
}

// NewCodefixService 创建 CodefixService。
// - users 提供当前用户的会员有效期，决定是否走付费接口。
func NewCodefixService(gw *gateway.Gateway, users *state.UserStore, logger *core.ZapLogger) CodefixService {
	return &codefixService{gw: gw, users: users, logger: logger, now: time.Now}
}

// Endpoint 仅当用户代码纠错会员未过期且请求高级模式时走付费接口。
func (s *codefixService) Endpoint(isAdvanced bool) string {
	if isAdvanced && s.users.Snapshot().CodeFixMemberAt(s.now()) {
		return PathFixVIP
	}
	return PathFix
}

func (s *codefixService) Correct(ctx context.Context, req dto.CorrectionRequest) (*vo.CorrectionResponse, error) {
	const operation = "CodefixService.Correct"
	if err := utils.ValidateParams(req); err != nil {
		return nil, err
	}

	path := s.Endpoint(req.IsAdvanced)
	s.logger.Debug("提交代码纠错",
		zap.String("endpoint", path),
		zap.String("language", req.Language),
		zap.Int("codeLen", len(req.Code)),
	)

	// IsAdvanced 与 Language 带 json:"-"，请求体只包含 code 与 add_info
	resp, err := gateway.RequestRaw[vo.CorrectionResponse](ctx, s.gw, path, gateway.RequestOptions{
		Method:       http.MethodPost,
		Body:         req,
		RequireToken: path == PathFixVIP,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return resp, nil
}
