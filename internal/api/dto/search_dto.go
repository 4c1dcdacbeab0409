package dto

// SearchCommentRequest 后台评论搜索
type SearchCommentRequest struct {
	Q        string `form:"q"`
	Ref      string `form:"ref"`
	RefID    *int64 `form:"ref_id"`
	Status   *int   `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchCommentInfo 搜索结果
type SearchCommentInfo struct {
	AdminCommentInfo
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// SearchCommentData 搜索结果列表
type SearchCommentData struct {
	Comments   []SearchCommentInfo `json:"comments"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int64               `json:"total_pages"`
}
