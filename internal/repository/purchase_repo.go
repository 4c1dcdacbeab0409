package repository

import (
	"context"
	"time"

	"comment-go/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// HasPurchased 客户是否购买过该商品
func (r *PurchaseRepository) HasPurchased(ctx context.Context, customerID, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error
	return count > 0, err
}

// ListDueForReminder 查询下单时间早于 before、尚未提醒、且客户未评论过该商品的订单行
func (r *PurchaseRepository) ListDueForReminder(ctx context.Context, ref string, before time.Time, limit int) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("ordered_at <= ? AND reminded_at IS NULL", before).
		Where("NOT EXISTS (?)",
			r.db.Model(&model.Comment{}).Select("1").
				Where("comments.ref = ? AND comments.ref_id = purchases.product_id AND comments.customer_id = purchases.customer_id", ref),
		).
		Order("ordered_at ASC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}

// MarkReminded 记录提醒已发送
func (r *PurchaseRepository) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ?", id).
		Update("reminded_at", at).Error
}
