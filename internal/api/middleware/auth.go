package middleware

import (
	"strings"

	"comment-go/internal/api/response"
	"comment-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyCustomerID = "currentCustomerID"
	ContextKeyRole       = "currentRole"
)

// AuthRequired JWT 认证中间件，要求请求必须携带有效 Token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "无效或过期的认证令牌")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 有 Token 时解析身份，没有或无效时按匿名访客处理
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := utils.ParseToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// AdminRequired 管理员权限中间件（必须在 AuthRequired 之后使用）
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextKeyRole)
		if !ok {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}
		if role != utils.RoleAdmin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentCustomerID 从 Gin Context 中获取当前登录客户 ID
func GetCurrentCustomerID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(ContextKeyCustomerID)
	if !exists {
		return 0, false
	}
	customerID, ok := val.(int64)
	return customerID, ok
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextKeyCustomerID, claims.CustomerID)
	c.Set(ContextKeyRole, claims.Role)
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
