package middleware

import (
	"comment-go/internal/api/response"

	"github.com/gin-gonic/gin"
)

// XMLHttpRequestOnly 只接受页面脚本发起的异步请求
func XMLHttpRequestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
			response.Forbidden(c, "拒绝访问")
			c.Abort()
			return
		}
		c.Next()
	}
}
