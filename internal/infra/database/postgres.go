package database

import (
	"fmt"
	"time"

	"comment-go/internal/config"
	"comment-go/internal/model"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化PostgreSQL数据库连接，debug 模式下打印 SQL
func Init(cfg *config.DatabaseConfig, mode string) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(resolveLogLevel(mode)),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	// 获取底层sql.DB来配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	logger.Info("Database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return nil
}

func resolveLogLevel(mode string) gormlogger.LogLevel {
	if mode == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// Migrate 迁移评论模块的全部表
func Migrate() error {
	if err := DB.AutoMigrate(
		&model.Comment{},
		&model.MetaData{},
		&model.Setting{},
		&model.Purchase{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	// 前台列表总是按 (ref, ref_id) 只取已通过的评论
	partial := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_comments_accepted_ref ON comments (ref, ref_id, created_at DESC) WHERE status = %d",
		int(model.CommentAccepted),
	)
	if err := DB.Exec(partial).Error; err != nil {
		return fmt.Errorf("failed to create partial index: %w", err)
	}

	logger.Info("Database auto migration completed")
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	logger.Info("Database connection closed")
	return sqlDB.Close()
}

// Get 获取数据库实例
func Get() *gorm.DB {
	return DB
}
