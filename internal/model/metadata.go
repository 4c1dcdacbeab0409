package model

// MetaKeyCommentActivated 评论开关在通用元数据表中的键
const MetaKeyCommentActivated = "COMMENT_ACTIVATED"

// 评论开关取值
const (
	ActivationUnset    = -1
	ActivationDisabled = 0
	ActivationEnabled  = 1
)

// MetaData 通用元数据，按 (meta_key, element_key, element_id) 唯一
type MetaData struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MetaKey    string `gorm:"size:100;not null;uniqueIndex:uk_meta_element,priority:1;comment:元数据键" json:"meta_key"`
	ElementKey string `gorm:"size:100;not null;uniqueIndex:uk_meta_element,priority:2;comment:实体类型" json:"element_key"`
	ElementID  int64  `gorm:"not null;uniqueIndex:uk_meta_element,priority:3;comment:实体ID" json:"element_id"`
	Value      string `gorm:"type:text;comment:值" json:"value"`
}

func (MetaData) TableName() string {
	return "meta_data"
}
