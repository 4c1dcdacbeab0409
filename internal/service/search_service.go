package service

import (
	"context"
	"encoding/json"
	"strings"

	"comment-go/internal/api/dto"
	infraES "comment-go/internal/infra/elasticsearch"
	"comment-go/internal/model"
	"comment-go/internal/repository"
	"comment-go/pkg/logger"

	"go.uber.org/zap"
)

// CommentSearchIndex 评论全文索引
type CommentSearchIndex interface {
	SearchComments(ctx context.Context, query []byte) (*infraES.SearchResult, error)
	SyncComment(ctx context.Context, c *model.Comment) error
	DeleteComment(ctx context.Context, commentID int64) error
	BulkSyncComments(ctx context.Context, comments []model.Comment) (success, failed int, err error)
}

const syncBatchSize = 500

type SearchService struct {
	comments CommentStore
	index    CommentSearchIndex
}

// NewSearchService index 为 nil 时直接查数据库
func NewSearchService(comments CommentStore, index CommentSearchIndex) *SearchService {
	return &SearchService{comments: comments, index: index}
}

// SearchComments 搜索评论（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchComments(ctx context.Context, req *dto.SearchCommentRequest) (*dto.SearchCommentData, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	if s.index != nil {
		data, err := s.searchFromES(ctx, req)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}
	return s.searchFromDB(ctx, req)
}

func (s *SearchService) searchFromES(ctx context.Context, req *dto.SearchCommentRequest) (*dto.SearchCommentData, error) {
	queryJSON, err := json.Marshal(buildCommentQuery(req))
	if err != nil {
		return nil, err
	}

	result, err := s.index.SearchComments(ctx, queryJSON)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(result.Hits))
	highlights := make(map[int64]map[string][]string)
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
		if len(h.Highlight) > 0 {
			highlights[h.ID] = h.Highlight
		}
	}
	if len(ids) == 0 {
		return buildSearchData(nil, highlights, result.Total, req.Page, req.PageSize), nil
	}

	comments, err := s.comments.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 保持 ES 的相关度顺序，已删除但索引未同步的记录直接跳过
	byID := make(map[int64]*model.Comment, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &comments[i]
	}
	ordered := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, *c)
		}
	}

	return buildSearchData(ordered, highlights, result.Total, req.Page, req.PageSize), nil
}

func buildCommentQuery(req *dto.SearchCommentRequest) map[string]interface{} {
	filter := []interface{}{}
	if req.Ref != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"ref": req.Ref}})
	}
	if req.RefID != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"ref_id": *req.RefID}})
	}
	if req.Status != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"status": *req.Status}})
	}

	boolQ := map[string]interface{}{"filter": filter}
	q := strings.TrimSpace(req.Q)
	if q != "" {
		boolQ["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":    q,
					"fields":   []string{"title^3", "content^1", "username"},
					"type":     "best_fields",
					"operator": "or",
				},
			},
		}
	}

	query := map[string]interface{}{
		"query":   map[string]interface{}{"bool": boolQ},
		"_source": []string{"id"},
		"from":    (req.Page - 1) * req.PageSize,
		"size":    req.PageSize,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}

	if q != "" {
		query["highlight"] = map[string]interface{}{
			"fields": map[string]interface{}{
				"title":   map[string]interface{}{},
				"content": map[string]interface{}{},
			},
			"pre_tags":  []string{"<em>"},
			"post_tags": []string{"</em>"},
		}
	}

	return query
}

func (s *SearchService) searchFromDB(ctx context.Context, req *dto.SearchCommentRequest) (*dto.SearchCommentData, error) {
	filter := repository.CommentFilter{
		Ref:     req.Ref,
		RefID:   req.RefID,
		Keyword: strings.TrimSpace(req.Q),
		Order:   repository.OrderCreatedReverse,
	}
	if req.Status != nil {
		status := model.CommentStatus(*req.Status)
		filter.Status = &status
	}
	comments, total, err := s.comments.List(ctx, filter, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, err
	}
	return buildSearchData(comments, nil, total, req.Page, req.PageSize), nil
}

func buildSearchData(comments []model.Comment, highlights map[int64]map[string][]string, total int64, page, pageSize int) *dto.SearchCommentData {
	items := make([]dto.SearchCommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, dto.SearchCommentInfo{
			AdminCommentInfo: ToAdminCommentInfo(&comments[i]),
			Highlight:        highlights[comments[i].ID],
		})
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return &dto.SearchCommentData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SyncComment 把评论当前内容和状态写入索引，记录已不存在时从索引移除
func (s *SearchService) SyncComment(ctx context.Context, commentID int64) error {
	if s.index == nil {
		return nil
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return s.index.DeleteComment(ctx, commentID)
		}
		return err
	}
	return s.index.SyncComment(ctx, comment)
}

// HandleCommentEvent 消费评论事件，保持索引与数据库一致
func (s *SearchService) HandleCommentEvent(ctx context.Context, kind string, commentID int64) error {
	switch EventKind(kind) {
	case EventCommentDeleted:
		if s.index == nil {
			return nil
		}
		return s.index.DeleteComment(ctx, commentID)
	case EventCommentCreated, EventCommentUpdated, EventCommentStatusChanged, EventCommentAbuse:
		return s.SyncComment(ctx, commentID)
	default:
		return nil
	}
}

// SyncAll 分批重建索引，包含所有状态的评论，后台搜索按 status 过滤
func (s *SearchService) SyncAll(ctx context.Context) (success, failed int, err error) {
	if s.index == nil {
		return 0, 0, nil
	}

	filter := repository.CommentFilter{Order: repository.OrderCreated}
	for skip := 0; ; skip += syncBatchSize {
		comments, _, err := s.comments.List(ctx, filter, skip, syncBatchSize)
		if err != nil {
			return success, failed, err
		}
		if len(comments) == 0 {
			break
		}

		ok, bad, err := s.index.BulkSyncComments(ctx, comments)
		success += ok
		failed += bad
		if err != nil {
			return success, failed, err
		}
		if len(comments) < syncBatchSize {
			break
		}
	}
	return success, failed, nil
}
