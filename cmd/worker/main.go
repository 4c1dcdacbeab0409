package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-go/internal/config"
	"comment-go/internal/infra/database"
	infraES "comment-go/internal/infra/elasticsearch"
	infraKafka "comment-go/internal/infra/kafka"
	infraRedis "comment-go/internal/infra/redis"
	"comment-go/internal/repository"
	"comment-go/internal/service"
	"comment-go/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// worker 负责两件事：消费评论事件维护搜索索引，按计划发送评价提醒
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database, cfg.App.Mode); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	var searchIndex service.CommentSearchIndex
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, index sync disabled", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		searchIndex = infraES.CommentIndex{}
	}

	db := database.Get()
	commentRepo := repository.NewCommentRepository(db)
	settingService := service.NewSettingService(
		repository.NewSettingRepository(db),
		infraRedis.NewCache(infraRedis.Get(), cfg.App.Name+":"),
		cfg.Comment.SettingsCacheDuration(),
	)
	searchService := service.NewSearchService(commentRepo, searchIndex)
	reminderService := service.NewReminderService(
		settingService,
		repository.NewPurchaseRepository(db),
		infraKafka.Publisher{},
		cfg.Kafka.Topic("comment_reminders"),
		cfg.Reminder.BatchSize,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Reminder.Schedule, func() {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer runCancel()
		if _, err := reminderService.RequestCustomerComments(runCtx); err != nil {
			logger.Error("Review reminder job failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("Invalid reminder schedule",
			zap.String("schedule", cfg.Reminder.Schedule),
			zap.Error(err),
		)
	}
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
		logger.Info("Reminder scheduler stopped")
	}()

	logger.Info("Comment worker started",
		zap.String("schedule", cfg.Reminder.Schedule),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	consumer, err := infraKafka.NewEventConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic("comment_events"),
		"comment-go-search-sync",
		func(ctx context.Context, ev *infraKafka.CommentEvent) error {
			return searchService.HandleCommentEvent(ctx, ev.Kind, ev.CommentID)
		},
	)
	if err != nil {
		logger.Fatal("Failed to create kafka consumer", zap.Error(err))
	}
	consumer.Run(ctx)
}
