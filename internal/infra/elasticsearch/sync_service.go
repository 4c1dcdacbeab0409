package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"comment-go/internal/model"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// ESCommentDoc ES 评论文档结构
type ESCommentDoc struct {
	ID         int64  `json:"id"`
	Ref        string `json:"ref"`
	RefID      int64  `json:"ref_id"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Rating     *int   `json:"rating,omitempty"`
	Status     int    `json:"status"`
	Verified   bool   `json:"verified"`
	Abuse      int    `json:"abuse"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// SearchHit 单条命中
type SearchHit struct {
	ID        int64
	Highlight map[string][]string
}

// SearchResult 搜索结果，按相关度排序
type SearchResult struct {
	Total int64
	Hits  []SearchHit
}

func commentToESDoc(c *model.Comment) *ESCommentDoc {
	return &ESCommentDoc{
		ID:         c.ID,
		Ref:        c.Ref,
		RefID:      c.RefID,
		CustomerID: c.CustomerID,
		Username:   c.Username,
		Title:      c.Title,
		Content:    c.Content,
		Rating:     c.Rating,
		Status:     int(c.Status),
		Verified:   c.Verified,
		Abuse:      c.Abuse,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
}

// CommentIndex 评论索引的读写入口
type CommentIndex struct{}

// SearchComments 执行查询，只取回文档 ID 和高亮
func (CommentIndex) SearchComments(ctx context.Context, query []byte) (*SearchResult, error) {
	resp, err := search(ctx, bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := responseError("search", resp); err != nil {
		return nil, err
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	result := &SearchResult{
		Total: esResp.Hits.Total.Value,
		Hits:  make([]SearchHit, 0, len(esResp.Hits.Hits)),
	}
	for _, h := range esResp.Hits.Hits {
		result.Hits = append(result.Hits, SearchHit{ID: h.Source.ID, Highlight: h.Highlight})
	}
	return result, nil
}

// SyncComment 同步单条评论到 ES
func (CommentIndex) SyncComment(ctx context.Context, c *model.Comment) error {
	body, err := json.Marshal(commentToESDoc(c))
	if err != nil {
		return err
	}

	resp, err := indexDocument(ctx, strconv.FormatInt(c.ID, 10), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := responseError("index comment", resp); err != nil {
		return err
	}

	logger.Debug("Comment synced to ES", zap.Int64("comment_id", c.ID))
	return nil
}

// DeleteComment 从 ES 删除评论，文档不存在视为成功
func (CommentIndex) DeleteComment(ctx context.Context, commentID int64) error {
	resp, err := deleteDocument(ctx, strconv.FormatInt(commentID, 10))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete comment", resp)
}

// BulkSyncComments 批量写入评论，返回成功和失败条数
func (CommentIndex) BulkSyncComments(ctx context.Context, comments []model.Comment) (success, failed int, err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range comments {
		action := map[string]map[string]string{
			"index": {"_id": strconv.FormatInt(comments[i].ID, 10)},
		}
		if err := enc.Encode(action); err != nil {
			return 0, len(comments), err
		}
		if err := enc.Encode(commentToESDoc(&comments[i])); err != nil {
			return 0, len(comments), fmt.Errorf("encode comment %d: %w", comments[i].ID, err)
		}
	}
	if len(comments) == 0 {
		return 0, 0, nil
	}

	resp, err := bulk(ctx, &buf)
	if err != nil {
		return 0, len(comments), err
	}
	defer resp.Body.Close()

	if err := responseError("bulk", resp); err != nil {
		return 0, len(comments), err
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(comments), fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
			continue
		}
		failed++
		logger.Warn("Bulk index comment failed",
			zap.String("comment_id", item.Index.ID),
			zap.Int("status", item.Index.Status),
			zap.String("reason", item.Index.Error.Reason),
		)
	}

	logger.Info("Bulk sync comments to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}
