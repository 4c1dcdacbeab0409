package model

import "time"

// Purchase 宿主平台的订单行投影，用于购买验证和评价提醒
type Purchase struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64      `gorm:"not null;index:idx_purchases_customer_product,priority:1;comment:客户ID" json:"customer_id"`
	ProductID  int64      `gorm:"not null;index:idx_purchases_customer_product,priority:2;comment:商品ID" json:"product_id"`
	Email      string     `gorm:"size:255;comment:客户邮箱" json:"email"`
	OrderedAt  time.Time  `gorm:"not null;index:idx_purchases_ordered_at;comment:下单时间" json:"ordered_at"`
	RemindedAt *time.Time `gorm:"comment:评价提醒发送时间" json:"reminded_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}
