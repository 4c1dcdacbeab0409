package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// 所有状态的评论都进入索引，按 status 过滤；标题和正文使用 IK 中文分词
func commentsIndexBody() map[string]interface{} {
	ikText := map[string]interface{}{
		"type":            "text",
		"analyzer":        "ik_max_word",
		"search_analyzer": "ik_smart",
	}
	date := map[string]interface{}{
		"type":   "date",
		"format": "strict_date_optional_time||epoch_millis",
	}

	title := map[string]interface{}{
		"fields": map[string]interface{}{
			"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 255},
		},
	}
	for k, v := range ikText {
		title[k] = v
	}

	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"refresh_interval":   "5s",
		},
		"mappings": map[string]interface{}{
			"dynamic": "strict",
			"properties": map[string]interface{}{
				"id":          map[string]string{"type": "long"},
				"ref":         map[string]string{"type": "keyword"},
				"ref_id":      map[string]string{"type": "long"},
				"customer_id": map[string]string{"type": "long"},
				"username":    map[string]string{"type": "keyword"},
				"title":       title,
				"content":     ikText,
				"rating":      map[string]string{"type": "byte"},
				"status":      map[string]string{"type": "byte"},
				"verified":    map[string]string{"type": "boolean"},
				"abuse":       map[string]string{"type": "integer"},
				"created_at":  date,
				"updated_at":  date,
			},
		},
	}
}

// EnsureCommentsIndex 确保评论索引存在，不存在则按 mapping 创建
func EnsureCommentsIndex(ctx context.Context) error {
	if client == nil {
		return errNotInitialized
	}

	exists, err := client.Indices.Exists([]string{commentIndex}, client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		logger.Debug("Elasticsearch comments index already exists", zap.String("index", commentIndex))
		return nil
	}

	body, err := json.Marshal(commentsIndexBody())
	if err != nil {
		return err
	}
	resp, err := client.Indices.Create(
		commentIndex,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if err := responseError("create index", resp); err != nil {
		return err
	}

	logger.Info("Elasticsearch comments index created", zap.String("index", commentIndex))
	return nil
}

// InitIndexes 启动时调用
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsureCommentsIndex(ctx)
}
