package dependencies

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Xushengqwer/codefix_portal/config"
	"github.com/Xushengqwer/codefix_portal/constants"
)

// JWTTokenInterface 定义 mock 后端签发与校验访问令牌的接口。
type JWTTokenInterface interface {
	// GenerateAccessToken 为用户签发访问令牌。
	GenerateAccessToken(userID int, phone string) (string, error)

	// ParseAccessToken 校验签名与有效期并返回声明。
	ParseAccessToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims 令牌中的声明。
type CustomClaims struct {
	UserID int    `json:"user_id"`
	Phone  string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtility 实现 JWTTokenInterface，使用 HS256 签名。
type JWTUtility struct {
	cfg *config.JWTConfig
	ttl time.Duration
}

// NewJWTUtility 创建 JWTUtility，令牌有效期为 constants.MockAccessTokenTTL。
func NewJWTUtility(cfg *config.JWTConfig) JWTTokenInterface {
	return &JWTUtility{cfg: cfg, ttl: constants.MockAccessTokenTTL}
}

func (ju *JWTUtility) GenerateAccessToken(userID int, phone string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: userID,
		Phone:  phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ju.cfg.Issuer,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(ju.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %w", err)
	}
	return signedToken, nil
}

func (ju *JWTUtility) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名方法: %v", token.Header["alg"])
		}
		return []byte(ju.cfg.SecretKey), nil
	}, jwt.WithIssuer(ju.cfg.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("令牌已过期: %w", err)
		}
		return nil, fmt.Errorf("令牌无效: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("令牌无效")
	}
	return claims, nil
}

// TokenInfo 客户端展示用的令牌摘要。
type TokenInfo struct {
	Subject   string
	Issuer    string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired 在 now 时刻令牌是否已过期；没有 exp 声明的令牌视为永不过期。
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// InspectToken 不校验签名，仅解析令牌中的标准声明。
// 客户端没有签名密钥，这里只用于展示登录状态。
func InspectToken(tokenString string) (*TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("无法解析令牌: %w", err)
	}
	info := &TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
