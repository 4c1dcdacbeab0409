package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"comment-go/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// 角色
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// 允许宿主平台与本服务之间的时钟误差
const clockSkew = 30 * time.Second

// Claims 宿主平台签发的 JWT：sub 为客户 ID，role 区分前台客户和后台管理员
type Claims struct {
	CustomerID int64  `json:"customer_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken 按宿主平台的格式签发 Token（联调和测试用）
func GenerateToken(customerID int64, role string) (string, error) {
	jwtCfg := config.GetJWT()
	now := time.Now()

	claims := Claims{
		CustomerID: customerID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(customerID, 10),
			Issuer:    issuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtCfg.ExpireDuration())),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken 校验签名、过期时间和签发方，返回 Claims
func ParseToken(tokenString string) (*Claims, error) {
	jwtCfg := config.GetJWT()

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	}
	if iss := jwtCfg.Issuer; iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtCfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims.Role != RoleCustomer && claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func issuer() string {
	if iss := config.GetJWT().Issuer; iss != "" {
		return iss
	}
	return config.GetApp().Name
}
