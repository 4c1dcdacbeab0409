package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"comment-go/internal/model"

	"github.com/google/uuid"
)

// EventKind 评论领域事件类型
type EventKind string

const (
	EventCommentCreate        EventKind = "comment.create" // 持久化之前
	EventCommentCreated       EventKind = "comment.created"
	EventCommentUpdated       EventKind = "comment.updated"
	EventCommentStatusChanged EventKind = "comment.status_changed"
	EventCommentDeleted       EventKind = "comment.deleted"
	EventCommentAbuse         EventKind = "comment.abuse"
)

// Channel 提交来源
type Channel int

const (
	ChannelFront Channel = iota
	ChannelAdmin
)

// Event 评论生命周期事件
type Event struct {
	ID             string
	Kind           EventKind
	Channel        Channel
	Comment        *model.Comment
	Submission     *Submission
	Definition     *Definition
	PreviousStatus *model.CommentStatus
	OccurredAt     time.Time
}

func newEvent(kind EventKind, channel Channel, comment *model.Comment) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Channel:    channel,
		Comment:    comment,
		OccurredAt: time.Now(),
	}
}

// Hook 事件订阅者
type Hook interface {
	Handle(ctx context.Context, ev *Event) error
}

// HookFunc 函数适配器
type HookFunc func(ctx context.Context, ev *Event) error

func (f HookFunc) Handle(ctx context.Context, ev *Event) error {
	return f(ctx, ev)
}

type hookEntry struct {
	kind     EventKind
	priority int
	seq      int
	hook     Hook
}

// HookChain 按优先级（高者先）同步调用的订阅者列表
type HookChain struct {
	entries []hookEntry
}

func NewHookChain() *HookChain {
	return &HookChain{}
}

// Register 注册订阅者，同优先级按注册顺序执行
func (c *HookChain) Register(kind EventKind, priority int, hook Hook) {
	c.entries = append(c.entries, hookEntry{kind: kind, priority: priority, seq: len(c.entries), hook: hook})
	sort.SliceStable(c.entries, func(i, j int) bool {
		if c.entries[i].priority != c.entries[j].priority {
			return c.entries[i].priority > c.entries[j].priority
		}
		return c.entries[i].seq < c.entries[j].seq
	})
}

// Dispatch 依次调用，遇到第一个错误即停止
func (c *HookChain) Dispatch(ctx context.Context, ev *Event) error {
	if c == nil {
		return nil
	}
	for _, e := range c.entries {
		if e.kind != ev.Kind {
			continue
		}
		if err := e.hook.Handle(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// DispatchAll 调用全部订阅者，汇总所有错误
func (c *HookChain) DispatchAll(ctx context.Context, ev *Event) error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, e := range c.entries {
		if e.kind != ev.Kind {
			continue
		}
		if err := e.hook.Handle(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
