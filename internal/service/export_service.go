package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"comment-go/internal/api/dto"
	"comment-go/internal/repository"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// ObjectStore 导出文件的对象存储
type ObjectStore interface {
	Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error)
}

const exportBatchSize = 500

type ExportService struct {
	comments CommentStore
	store    ObjectStore
	bucket   string
	expiry   time.Duration
	now      func() time.Time
}

func NewExportService(comments CommentStore, store ObjectStore, bucket string, expiry time.Duration) *ExportService {
	return &ExportService{
		comments: comments,
		store:    store,
		bucket:   bucket,
		expiry:   expiry,
		now:      time.Now,
	}
}

// Export 按筛选条件导出评论为 JSON Lines 并返回下载链接
func (s *ExportService) Export(ctx context.Context, filter repository.CommentFilter) (*dto.ExportResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	count := 0
	for skip := 0; ; skip += exportBatchSize {
		comments, _, err := s.comments.List(ctx, filter, skip, exportBatchSize)
		if err != nil {
			return nil, err
		}
		for i := range comments {
			if err := enc.Encode(ToAdminCommentInfo(&comments[i])); err != nil {
				return nil, fmt.Errorf("encode comment %d: %w", comments[i].ID, err)
			}
			count++
		}
		if len(comments) < exportBatchSize {
			break
		}
	}

	objectName := fmt.Sprintf("comments-%s.jsonl", s.now().UTC().Format("20060102-150405"))
	if err := s.store.Upload(ctx, s.bucket, objectName, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/x-ndjson"); err != nil {
		return nil, err
	}

	url, err := s.store.PresignedURL(ctx, s.bucket, objectName, s.expiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Comments exported",
		zap.String("bucket", s.bucket),
		zap.String("object", objectName),
		zap.Int("count", count),
	)

	return &dto.ExportResult{ObjectName: objectName, URL: url, Count: count}, nil
}
