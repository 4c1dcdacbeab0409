package model

import "time"

// Setting 模块级键值配置
type Setting struct {
	Name      string    `gorm:"primaryKey;size:128;comment:配置键" json:"name"`
	Value     string    `gorm:"type:text;comment:配置值" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
