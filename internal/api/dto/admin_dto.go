package dto

import "time"

// AdminCommentListQuery 后台评论列表查询
type AdminCommentListQuery struct {
	Status     *int   `form:"status"`
	Ref        string `form:"ref"`
	RefID      *int64 `form:"ref_id"`
	CustomerID *int64 `form:"customer_id"`
	Order      string `form:"order"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// AdminCommentCreateRequest 后台创建评论
type AdminCommentCreateRequest struct {
	Ref        string `json:"ref" binding:"required"`
	RefID      int64  `json:"ref_id" binding:"gte=0"`
	CustomerID *int64 `json:"customer_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Locale     string `json:"locale"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Rating     *int   `json:"rating"`
	Status     int    `json:"status"`
	Verified   bool   `json:"verified"`
}

// AdminCommentUpdateRequest 后台修改评论（ref / ref_id 不可修改）
type AdminCommentUpdateRequest struct {
	CustomerID *int64 `json:"customer_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Locale     string `json:"locale"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Rating     *int   `json:"rating"`
	Status     int    `json:"status"`
	Verified   bool   `json:"verified"`
}

// AdminCommentInfo 后台评论详情
type AdminCommentInfo struct {
	ID         int64     `json:"id"`
	Ref        string    `json:"ref"`
	RefID      int64     `json:"ref_id"`
	CustomerID *int64    `json:"customer_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Locale     string    `json:"locale"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Rating     *int      `json:"rating"`
	Status     int       `json:"status"`
	Verified   bool      `json:"verified"`
	Abuse      int       `json:"abuse"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AdminCommentListData 后台评论列表
type AdminCommentListData struct {
	Comments   []AdminCommentInfo `json:"comments"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}

// StatusChangeRequest 修改审核状态
type StatusChangeRequest struct {
	ID     *int64 `json:"id" form:"id"`
	Status *int   `json:"status" form:"status"`
}

// ActivationRequest 设置实体评论开关，-1 表示恢复默认
type ActivationRequest struct {
	Status *int `json:"status" form:"status"`
}

// ConfigurationRequest 模块配置
type ConfigurationRequest struct {
	Activated             bool     `json:"activated"`
	Moderate              bool     `json:"moderate"`
	RefAllowed            []string `json:"ref_allowed"`
	OnlyCustomer          bool     `json:"only_customer"`
	OnlyVerified          bool     `json:"only_verified"`
	RequestCustomerTTL    int      `json:"request_customer_ttl" binding:"gte=0"`
	NotifyAdminNewComment bool     `json:"notify_admin_new_comment"`
}

// ExportResult 导出结果
type ExportResult struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
	Count      int    `json:"count"`
}

// ReminderResult 评价提醒执行结果
type ReminderResult struct {
	Sent int `json:"sent"`
}

// StatusChangeResult 审核状态修改结果
type StatusChangeResult struct {
	ID     int64 `json:"id"`
	Status int   `json:"status"`
}

// SyncResult 搜索索引重建结果
type SyncResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
