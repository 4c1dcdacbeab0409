package repository

import (
	"context"
	"errors"

	"comment-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetaDataRepository struct {
	db *gorm.DB
}

func NewMetaDataRepository(db *gorm.DB) *MetaDataRepository {
	return &MetaDataRepository{db: db}
}

// GetVal 读取元数据，不存在时 found 为 false
func (r *MetaDataRepository) GetVal(ctx context.Context, metaKey, elementKey string, elementID int64) (string, bool, error) {
	var meta model.MetaData
	err := r.db.WithContext(ctx).
		Where("meta_key = ? AND element_key = ? AND element_id = ?", metaKey, elementKey, elementID).
		First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return meta.Value, true, nil
}

// SetVal 写入元数据（存在则覆盖）
func (r *MetaDataRepository) SetVal(ctx context.Context, metaKey, elementKey string, elementID int64, value string) error {
	meta := model.MetaData{
		MetaKey:    metaKey,
		ElementKey: elementKey,
		ElementID:  elementID,
		Value:      value,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}, {Name: "element_key"}, {Name: "element_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// DeleteVal 删除元数据，返回删除行数
func (r *MetaDataRepository) DeleteVal(ctx context.Context, metaKey, elementKey string, elementID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("meta_key = ? AND element_key = ? AND element_id = ?", metaKey, elementKey, elementID).
		Delete(&model.MetaData{})
	return result.RowsAffected, result.Error
}
