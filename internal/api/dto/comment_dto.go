package dto

import "time"

// CommentAddRequest 前台发表评论请求
type CommentAddRequest struct {
	Ref           string `json:"ref" form:"ref"`
	RefID         int64  `json:"ref_id" form:"ref_id"`
	Title         string `json:"title" form:"title"`
	Content       string `json:"content" form:"content"`
	Rating        *int   `json:"rating" form:"rating"`
	Username      string `json:"username" form:"username"`
	Email         string `json:"email" form:"email"`
	CaptchaID     string `json:"captcha_id" form:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer" form:"captcha_answer"`
}

// CommentListQuery 前台评论列表查询
type CommentListQuery struct {
	Ref   string `form:"ref" binding:"required"`
	RefID int64  `form:"ref_id"`
	Start int    `form:"start"`
	Count int    `form:"count"`
}

// CommentAbuseRequest 举报评论
type CommentAbuseRequest struct {
	// ID 为 nil 表示缺失，0 和负数照常受理
	ID *int64 `json:"id" form:"id"`
}

// CommentInfo 前台展示的评论信息（不含邮箱）
type CommentInfo struct {
	ID         int64     `json:"id"`
	Ref        string    `json:"ref"`
	RefID      int64     `json:"ref_id"`
	CustomerID *int64    `json:"customer_id"`
	Username   string    `json:"username"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Rating     *int      `json:"rating"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary 评分汇总
type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// DefinitionInfo 当前访客的评论资格
type DefinitionInfo struct {
	CanComment     bool   `json:"can_comment"`
	HasRating      bool   `json:"has_rating"`
	RatingRequired bool   `json:"rating_required"`
	Verified       bool   `json:"verified"`
	Message        string `json:"message,omitempty"`
}

// CommentListData 前台评论列表
type CommentListData struct {
	Comments   []CommentInfo   `json:"comments"`
	Total      int64           `json:"total"`
	Start      int             `json:"start"`
	Count      int             `json:"count"`
	Rating     RatingSummary   `json:"rating"`
	Definition *DefinitionInfo `json:"definition,omitempty"`
}

// CaptchaData 图形验证码
type CaptchaData struct {
	CaptchaID string `json:"captcha_id"`
	Image     string `json:"image"`
}
