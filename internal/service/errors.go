package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrCommentNoPermission = errors.New("没有权限操作该评论")
	ErrInvalidStatus       = errors.New("无效的评论状态")
	ErrInvalidActivation   = errors.New("无效的评论开关值")
	ErrCaptchaFailed       = errors.New("验证码错误")
)

// ValidationError 字段级校验失败，用户可修正
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DefinitionError 访客无权在该实体上评论。
// Silent 为 true 时对外只返回通用的拒绝访问，Reason 仅用于日志；
// 否则 Reason 是可直接展示给用户的提示。
type DefinitionError struct {
	Silent bool
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Silent {
		return "comment definition denied (silent): " + e.Reason
	}
	return e.Reason
}

func silentDenial(format string, args ...interface{}) *DefinitionError {
	return &DefinitionError{Silent: true, Reason: fmt.Sprintf(format, args...)}
}

func explicitDenial(reason string) *DefinitionError {
	return &DefinitionError{Silent: false, Reason: reason}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
