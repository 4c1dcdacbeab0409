package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	infraKafka "comment-go/internal/infra/kafka"
	"comment-go/internal/model"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// PurchaseStore 订单行查询
type PurchaseStore interface {
	ListDueForReminder(ctx context.Context, ref string, before time.Time, limit int) ([]model.Purchase, error)
	MarkReminded(ctx context.Context, id int64, at time.Time) error
}

// 评价提醒只针对商品
const reminderRef = "product"

type ReminderService struct {
	settings  SettingsLoader
	purchases PurchaseStore
	publisher MessagePublisher
	topic     string
	batchSize int
	now       func() time.Time
}

func NewReminderService(settings SettingsLoader, purchases PurchaseStore, publisher MessagePublisher, topic string, batchSize int) *ReminderService {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &ReminderService{
		settings:  settings,
		purchases: purchases,
		publisher: publisher,
		topic:     topic,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// RequestCustomerComments 邀请下单超过 request_customer_ttl 天且尚未评价的客户发表评论，
// 返回本次发送的提醒数量。TTL 为 0 时不做任何事。
func (s *ReminderService) RequestCustomerComments(ctx context.Context) (int, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return 0, err
	}
	if cfg.RequestCustomerTTL <= 0 || !cfg.IsRefAllowed(reminderRef) {
		return 0, nil
	}

	now := s.now()
	before := now.AddDate(0, 0, -cfg.RequestCustomerTTL)

	purchases, err := s.purchases.ListDueForReminder(ctx, reminderRef, before, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list purchases due for reminder: %w", err)
	}

	sent := 0
	for i := range purchases {
		p := &purchases[i]
		msg := infraKafka.ReviewReminder{
			PurchaseID: p.ID,
			CustomerID: p.CustomerID,
			Email:      p.Email,
			Ref:        reminderRef,
			RefID:      p.ProductID,
			OrderedAt:  p.OrderedAt.Unix(),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return sent, err
		}

		if err := s.publisher.Publish(ctx, s.topic, fmt.Sprintf("purchase-%d", p.ID), payload); err != nil {
			logger.Warn("Publish review reminder failed",
				zap.Int64("purchase_id", p.ID),
				zap.Error(err),
			)
			continue
		}
		if err := s.purchases.MarkReminded(ctx, p.ID, now); err != nil {
			return sent, fmt.Errorf("mark purchase %d reminded: %w", p.ID, err)
		}
		sent++
	}

	logger.Info("Review reminders sent",
		zap.Int("due", len(purchases)),
		zap.Int("sent", sent),
	)
	return sent, nil
}
