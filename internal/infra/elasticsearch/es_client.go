package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"comment-go/internal/config"
	"comment-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

var errNotInitialized = errors.New("elasticsearch client not initialized")

var (
	client       *elasticsearch.Client
	commentIndex = "comments"
)

// Init 初始化 Elasticsearch 客户端并确认集群可达
func Init(cfg *config.ElasticsearchConfig) error {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return errors.New("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		MaxRetries:    3,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * time.Second },
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer resp.Body.Close()
	if err := responseError("ping", resp); err != nil {
		return err
	}

	client = es
	commentIndex = cfg.IndexName("comments")
	logger.Info("Elasticsearch connected",
		zap.Strings("hosts", hosts),
		zap.String("comment_index", commentIndex),
	)
	return nil
}

func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}
	return hosts
}

// CommentIndexName 返回评论索引名
func CommentIndexName() string {
	return commentIndex
}

// responseError 把 ES 的错误响应转换成 error，例如
// {"error":{"type":"index_not_found_exception","reason":"no such index"}}
func responseError(op string, resp *esapi.Response) error {
	if !resp.IsError() {
		return nil
	}

	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Type != "" {
		return fmt.Errorf("elasticsearch %s failed [%d %s]: %s", op, resp.StatusCode, body.Error.Type, body.Error.Reason)
	}
	return fmt.Errorf("elasticsearch %s failed [%d]: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
}

func search(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotInitialized
	}
	return client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(commentIndex),
		client.Search.WithBody(body),
		client.Search.WithTrackTotalHits(true),
	)
}

func indexDocument(ctx context.Context, id string, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotInitialized
	}
	return client.Index(
		commentIndex,
		body,
		client.Index.WithContext(ctx),
		client.Index.WithDocumentID(id),
		client.Index.WithRefresh("false"),
	)
}

func deleteDocument(ctx context.Context, id string) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotInitialized
	}
	return client.Delete(commentIndex, id, client.Delete.WithContext(ctx))
}

func bulk(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	if client == nil {
		return nil, errNotInitialized
	}
	return client.Bulk(body, client.Bulk.WithContext(ctx), client.Bulk.WithIndex(commentIndex))
}

// Close 释放客户端引用（HTTP 连接由 transport 自行回收）
func Close() error {
	client = nil
	logger.Info("Elasticsearch client closed")
	return nil
}
