package repository

import (
	"context"

	"comment-go/internal/model"

	"gorm.io/gorm"
)

// CommentFilter 后台列表筛选条件
type CommentFilter struct {
	Status     *model.CommentStatus
	Ref        string
	RefID      *int64
	CustomerID *int64
	Keyword    string
	Order      string
}

// 排序方式
const (
	OrderCreatedReverse = "created_reverse"
	OrderCreated        = "created"
	OrderRating         = "rating"
	OrderAbuse          = "abuse"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDs 批量获取评论，返回顺序不保证
func (r *CommentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error) {
	var comments []model.Comment
	if len(ids) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	return comments, err
}

// Update 更新可编辑字段（ref / ref_id 不可变）
func (r *CommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Select("customer_id", "username", "email", "locale", "title", "content", "rating", "status", "verified").
		Updates(comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus 修改审核状态
func (r *CommentRepository) UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论
func (r *CommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementAbuse 举报次数加一
func (r *CommentRepository) IncrementAbuse(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("abuse", gorm.Expr("abuse + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List 按条件分页查询评论
func (r *CommentRepository) List(ctx context.Context, filter CommentFilter, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Ref != "" {
		query = query.Where("ref = ?", filter.Ref)
	}
	if filter.RefID != nil {
		query = query.Where("ref_id = ?", *filter.RefID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("(title ILIKE ? OR content ILIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Order(orderClause(filter.Order)).
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func orderClause(order string) string {
	switch order {
	case OrderCreated:
		return "created_at ASC, id ASC"
	case OrderRating:
		return "rating DESC NULLS LAST, created_at DESC"
	case OrderAbuse:
		return "abuse DESC, created_at DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// RatingSummary 统计已通过评论的评分数量和平均分
func (r *CommentRepository) RatingSummary(ctx context.Context, ref string, refID int64) (int64, float64, error) {
	var row struct {
		Count   int64
		Average *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("COUNT(rating) AS count, AVG(rating) AS average").
		Where("ref = ? AND ref_id = ? AND status = ? AND rating IS NOT NULL", ref, refID, model.CommentAccepted).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Average == nil {
		return row.Count, 0, nil
	}
	return row.Count, *row.Average, nil
}
