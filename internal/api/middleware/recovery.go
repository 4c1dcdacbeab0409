package middleware

import (
	"errors"
	"net"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"comment-go/internal/api/response"
	"comment-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery 捕获 panic，记录堆栈，对外只返回通用错误
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			}
			if id, ok := GetCurrentCustomerID(c); ok {
				fields = append(fields, zap.Int64("customer_id", id))
			}

			// 客户端已断开，写响应没有意义
			if isBrokenPipe(rec) {
				logger.Warn("Client connection lost", fields...)
				c.Abort()
				return
			}

			logger.Error("Panic recovered", append(fields, zap.ByteString("stack", debug.Stack()))...)
			response.InternalError(c, "服务器内部错误")
			c.Abort()
		}()

		c.Next()
	}
}

func isBrokenPipe(rec interface{}) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EPIPE) || errors.Is(sysErr.Err, syscall.ECONNRESET)
	}
	msg := strings.ToLower(opErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
