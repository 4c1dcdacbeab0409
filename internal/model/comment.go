package model

import "time"

// CommentStatus 评论审核状态
type CommentStatus int

const (
	CommentPending  CommentStatus = 0 // 待审核
	CommentAccepted CommentStatus = 1 // 已通过
	CommentRejected CommentStatus = 2 // 已拒绝
)

// Valid 判断状态值是否合法
func (s CommentStatus) Valid() bool {
	return s == CommentPending || s == CommentAccepted || s == CommentRejected
}

func (s CommentStatus) String() string {
	switch s {
	case CommentPending:
		return "pending"
	case CommentAccepted:
		return "accepted"
	case CommentRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Comment 评论模型，通过 (ref, ref_id) 关联任意实体
type Comment struct {
	ID         int64         `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	Ref        string        `gorm:"size:64;not null;index:idx_comments_ref,priority:1;comment:被评论实体类型" json:"ref"`
	RefID      int64         `gorm:"not null;index:idx_comments_ref,priority:2;comment:被评论实体ID" json:"ref_id"`
	CustomerID *int64        `gorm:"index:idx_comments_customer_id;comment:评论客户ID，为空表示匿名" json:"customer_id"`
	Username   string        `gorm:"size:255;comment:匿名用户名" json:"username"`
	Email      string        `gorm:"size:255;comment:匿名邮箱" json:"email"`
	Locale     string        `gorm:"size:16;comment:语言" json:"locale"`
	Title      string        `gorm:"size:255;not null;comment:标题" json:"title"`
	Content    string        `gorm:"type:text;not null;comment:内容" json:"content"`
	Rating     *int          `gorm:"comment:评分0-5" json:"rating"`
	Status     CommentStatus `gorm:"not null;default:0;index:idx_comments_status;comment:审核状态" json:"status"`
	Verified   bool          `gorm:"not null;default:false;comment:是否已购买验证" json:"verified"`
	Abuse      int           `gorm:"not null;default:0;comment:被举报次数" json:"abuse"`
	CreatedAt  time.Time     `gorm:"autoCreateTime;index:idx_comments_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsAnonymous 是否匿名评论
func (c *Comment) IsAnonymous() bool {
	return c.CustomerID == nil
}

// IsOwnedBy 判断评论是否属于指定客户
func (c *Comment) IsOwnedBy(customerID int64) bool {
	return c.CustomerID != nil && *c.CustomerID == customerID
}
