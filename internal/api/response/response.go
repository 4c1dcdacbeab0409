package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一成功响应
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// MessagesResponse 提交类接口的响应，messages 逐条展示给用户
type MessagesResponse struct {
	Success  bool     `json:"success"`
	Field    string   `json:"field,omitempty"`
	Messages []string `json:"messages"`
}

// StatusResponse 开关类接口的响应
type StatusResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// ErrorInfo 错误详情
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   ErrorInfo `json:"error"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Messages 以 200 返回 {success, messages}
func Messages(c *gin.Context, success bool, messages ...string) {
	if messages == nil {
		messages = []string{}
	}
	c.JSON(http.StatusOK, MessagesResponse{
		Success:  success,
		Messages: messages,
	})
}

// Invalid 字段校验失败，以 200 返回 {success:false, field, messages}
func Invalid(c *gin.Context, field, message string) {
	c.JSON(http.StatusOK, MessagesResponse{
		Success:  false,
		Field:    field,
		Messages: []string{message},
	})
}

// Message 以 200 返回 {success, message}
func Message(c *gin.Context, success bool, message string) {
	c.JSON(http.StatusOK, Response{
		Success: success,
		Message: message,
	})
}

// Status 以 200 返回 {success, status}
func Status(c *gin.Context, success bool, status int) {
	c.JSON(http.StatusOK, StatusResponse{
		Success: success,
		Status:  status,
	})
}

func Fail(c *gin.Context, statusCode int, errType string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Error: ErrorInfo{
			Code:    statusCode,
			Message: message,
			Type:    errType,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BadRequest", message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "Unauthorized", message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, "Forbidden", message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, "NotFound", message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, "TooManyRequests", message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, "InternalServerError", message)
}
