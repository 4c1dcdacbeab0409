package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"comment-go/internal/config"
	"comment-go/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"go.uber.org/zap"
)

var client *minio.Client

// Init 初始化 MinIO 客户端，确保导出 Bucket 存在并设置过期规则
func Init(cfg *config.MinIOConfig) error {
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ensureBucket(ctx, c, cfg.ExportBucket); err != nil {
		return err
	}
	if cfg.ExportRetentionDays > 0 {
		if err := setExpiry(ctx, c, cfg.ExportBucket, cfg.ExportRetentionDays); err != nil {
			// 没有 lifecycle 权限时导出仍可用，只是旧文件需要手工清理
			logger.Warn("Set export bucket lifecycle failed", zap.Error(err))
		}
	}

	client = c
	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("export_bucket", cfg.ExportBucket),
		zap.Int("retention_days", cfg.ExportRetentionDays),
	)
	return nil
}

func ensureBucket(ctx context.Context, c *minio.Client, bucket string) error {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	logger.Info("MinIO bucket created", zap.String("bucket", bucket))
	return nil
}

func setExpiry(ctx context.Context, c *minio.Client, bucket string, days int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{{
		ID:         "expire-comment-exports",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
	}}
	return c.SetBucketLifecycle(ctx, bucket, cfg)
}

// ObjectStore 评论导出文件的存储
type ObjectStore struct{}

// Upload 上传对象，size 未知时传 -1
func (ObjectStore) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error {
	if client == nil {
		return errors.New("minio client not initialized")
	}
	info, err := client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	logger.Debug("Object uploaded",
		zap.String("bucket", bucket),
		zap.String("object", objectName),
		zap.Int64("size", info.Size),
	)
	return nil
}

// PresignedURL 生成限时下载链接，浏览器打开时直接下载
func (ObjectStore) PresignedURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error) {
	if client == nil {
		return "", errors.New("minio client not initialized")
	}
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(objectName)))
	u, err := client.PresignedGetObject(ctx, bucket, objectName, expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectName, err)
	}
	return u.String(), nil
}
