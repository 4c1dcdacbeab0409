package service

import (
	"context"
	"encoding/json"
	"fmt"

	infraKafka "comment-go/internal/infra/kafka"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// MessagePublisher 消息队列生产者
type MessagePublisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// EventPublisher 把评论生命周期事件发到 Kafka，供 worker 同步搜索索引
type EventPublisher struct {
	publisher MessagePublisher
	topic     string
}

func NewEventPublisher(publisher MessagePublisher, topic string) *EventPublisher {
	return &EventPublisher{publisher: publisher, topic: topic}
}

func (p *EventPublisher) Handle(ctx context.Context, ev *Event) error {
	msg := infraKafka.CommentEvent{
		EventID:    ev.ID,
		Kind:       string(ev.Kind),
		CommentID:  ev.Comment.ID,
		Ref:        ev.Comment.Ref,
		RefID:      ev.Comment.RefID,
		Status:     int(ev.Comment.Status),
		OccurredAt: ev.OccurredAt.Unix(),
	}
	if ev.PreviousStatus != nil {
		prev := int(*ev.PreviousStatus)
		msg.PreviousStatus = &prev
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal comment event: %w", err)
	}
	return p.publisher.Publish(ctx, p.topic, fmt.Sprintf("comment-%d", ev.Comment.ID), payload)
}

// AdminNotifier 新评论提醒管理员（由宿主平台的邮件服务消费）
type AdminNotifier struct {
	publisher MessagePublisher
	settings  SettingsLoader
	topic     string
}

func NewAdminNotifier(publisher MessagePublisher, settings SettingsLoader, topic string) *AdminNotifier {
	return &AdminNotifier{publisher: publisher, settings: settings, topic: topic}
}

func (n *AdminNotifier) Handle(ctx context.Context, ev *Event) error {
	if ev.Channel != ChannelFront {
		return nil
	}

	var cfg ModuleConfig
	if ev.Definition != nil {
		cfg = ev.Definition.Config
	} else {
		loaded, err := n.settings.Load(ctx)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if !cfg.NotifyAdminNewComment {
		return nil
	}

	c := ev.Comment
	msg := infraKafka.AdminNotification{
		CommentID:  c.ID,
		Ref:        c.Ref,
		RefID:      c.RefID,
		Title:      c.Title,
		Username:   c.Username,
		CustomerID: c.CustomerID,
		Status:     int(c.Status),
		Rating:     c.Rating,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal admin notification: %w", err)
	}
	if err := n.publisher.Publish(ctx, n.topic, fmt.Sprintf("comment-%d", c.ID), payload); err != nil {
		return err
	}

	logger.Debug("Admin notified of new comment", zap.Int64("comment_id", c.ID))
	return nil
}
