package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"comment-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CommentEventHandler 处理评论事件的回调函数
type CommentEventHandler func(ctx context.Context, ev *CommentEvent) error

const (
	handleTimeout   = 30 * time.Second
	maxHandleTries  = 3
	retryBaseDelay  = 500 * time.Millisecond
	fetchErrorPause = time.Second
)

// EventConsumer 消费评论事件。处理完（或放弃）后才提交 offset，
// 因此进程重启时未处理的事件会重新投递，处理函数需要幂等。
type EventConsumer struct {
	reader  *kafka.Reader
	handler CommentEventHandler
	topic   string
	sleep   func(context.Context, time.Duration) bool
}

func NewEventConsumer(brokers []string, topic, groupID string, handler CommentEventHandler) (*EventConsumer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if topic == "" || groupID == "" {
		return nil, errors.New("kafka topic and group id are required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     3 * time.Second,
		StartOffset: kafka.FirstOffset,
	})

	return &EventConsumer{reader: reader, handler: handler, topic: topic, sleep: sleepCtx}, nil
}

// Run 阻塞消费直到 ctx 取消
func (c *EventConsumer) Run(ctx context.Context) {
	logger.Info("Kafka comment event consumer started", zap.String("topic", c.topic))
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka comment event consumer stopped", zap.String("topic", c.topic))
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			logger.Error("Failed to fetch kafka message", zap.String("topic", c.topic), zap.Error(err))
			if !c.sleep(ctx, fetchErrorPause) {
				return
			}
			continue
		}

		if err := c.process(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Dropping comment event after retries",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn("Failed to commit kafka offset",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// process 解码并处理一条消息，失败时按指数退避重试
func (c *EventConsumer) process(ctx context.Context, value []byte) error {
	var ev CommentEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		// 格式错误的消息重试也没用
		return fmt.Errorf("decode comment event: %w", err)
	}

	var err error
	delay := retryBaseDelay
	for attempt := 1; attempt <= maxHandleTries; attempt++ {
		handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
		err = c.handler(handleCtx, &ev)
		cancel()
		if err == nil {
			logger.Debug("Comment event handled",
				zap.String("kind", ev.Kind),
				zap.Int64("comment_id", ev.CommentID),
			)
			return nil
		}

		logger.Warn("Handle comment event failed",
			zap.String("kind", ev.Kind),
			zap.Int64("comment_id", ev.CommentID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxHandleTries && !c.sleep(ctx, delay) {
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
