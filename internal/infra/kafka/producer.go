package kafka

import (
	"context"
	"fmt"
	"time"

	"comment-go/internal/config"
	"comment-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// CommentEvent 评论生命周期事件消息体
type CommentEvent struct {
	EventID        string `json:"event_id"`
	Kind           string `json:"kind"`
	CommentID      int64  `json:"comment_id"`
	Ref            string `json:"ref"`
	RefID          int64  `json:"ref_id"`
	Status         int    `json:"status"`
	PreviousStatus *int   `json:"previous_status,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}

// AdminNotification 新评论通知管理员的消息体
type AdminNotification struct {
	CommentID  int64  `json:"comment_id"`
	Ref        string `json:"ref"`
	RefID      int64  `json:"ref_id"`
	Title      string `json:"title"`
	Username   string `json:"username,omitempty"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	Status     int    `json:"status"`
	Rating     *int   `json:"rating,omitempty"`
}

// ReviewReminder 邀请客户评价已购商品的消息体
type ReviewReminder struct {
	PurchaseID int64  `json:"purchase_id"`
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	Ref        string `json:"ref"`
	RefID      int64  `json:"ref_id"`
	OrderedAt  int64  `json:"ordered_at"`
}

// 生产者写入超时，超时后由调用方决定是否重试
const writeTimeout = 5 * time.Second

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}

	// 同一 key 的消息经 Hash 落在同一分区，保证单条评论的事件顺序
	producer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.Any("topics", cfg.Topics),
	)

	return nil
}

// Publisher 基于全局生产者的发布器
type Publisher struct{}

// Publish 发送一条 JSON 消息
func (Publisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	if producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s (key=%s): %w", topic, key, err)
	}

	logger.Debug("Kafka message sent", zap.String("topic", topic), zap.String("key", key))
	return nil
}

// CloseProducer 关闭生产者，等待缓冲中的消息写完
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	err := producer.Close()
	producer = nil
	logger.Info("Kafka producer closed")
	return err
}
