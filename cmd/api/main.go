package main

import (
	"fmt"
	"net/http"
	"time"

	"comment-go/internal/api/handler"
	"comment-go/internal/api/middleware"
	"comment-go/internal/api/router"
	"comment-go/internal/config"
	"comment-go/internal/infra/database"
	infraES "comment-go/internal/infra/elasticsearch"
	infraKafka "comment-go/internal/infra/kafka"
	infraMinio "comment-go/internal/infra/minio"
	infraRedis "comment-go/internal/infra/redis"
	"comment-go/internal/repository"
	"comment-go/internal/service"
	"comment-go/pkg/logger"

	_ "comment-go/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Comment-Go API
// @version 1.0
// @description 带审核的评论模块 API 服务
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database, cfg.App.Mode); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// 自动迁移数据库表
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	var searchIndex service.CommentSearchIndex
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		searchIndex = infraES.CommentIndex{}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	commentRepo := repository.NewCommentRepository(db)
	metaRepo := repository.NewMetaDataRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	cache := infraRedis.NewCache(infraRedis.Get(), cfg.App.Name+":")
	publisher := infraKafka.Publisher{}

	settingService := service.NewSettingService(settingRepo, cache, cfg.Comment.SettingsCacheDuration())
	captchaService := service.NewCaptchaService(&cfg.Captcha, cache)

	hooks := service.NewHookChain()
	hooks.Register(service.EventCommentCreate, 256, captchaService)
	eventPublisher := service.NewEventPublisher(publisher, cfg.Kafka.Topic("comment_events"))
	for _, kind := range []service.EventKind{
		service.EventCommentCreated,
		service.EventCommentUpdated,
		service.EventCommentStatusChanged,
		service.EventCommentDeleted,
		service.EventCommentAbuse,
	} {
		hooks.Register(kind, 128, eventPublisher)
	}
	hooks.Register(service.EventCommentCreated, 64,
		service.NewAdminNotifier(publisher, settingService, cfg.Kafka.Topic("comment_notifications")))

	definitionService := service.NewDefinitionService(
		settingService,
		metaRepo,
		cfg.Comment.IsRatingRequired,
		service.NewProductDefinitionProvider(purchaseRepo),
		service.ContentDefinitionProvider{},
	)
	commentService := service.NewCommentService(commentRepo, metaRepo, hooks, &cfg.Comment)
	searchService := service.NewSearchService(commentRepo, searchIndex)
	exportService := service.NewExportService(commentRepo, infraMinio.ObjectStore{}, cfg.MinIO.ExportBucket, cfg.MinIO.ExportExpiryDuration())
	reminderService := service.NewReminderService(settingService, purchaseRepo, publisher, cfg.Kafka.Topic("comment_reminders"), cfg.Reminder.BatchSize)

	commentHandler := handler.NewCommentHandler(definitionService, commentService, captchaService)
	adminHandler := handler.NewCommentAdminHandler(commentService, settingService, searchService, exportService, reminderService)

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, commentHandler, adminHandler, middleware.NewIPRateLimiter(&cfg.RateLimit))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
		zap.Bool("captcha", cfg.Captcha.Enabled),
	)

	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
	})
}
