package template

import "time"

type DocumentTemplate struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Category  string    `gorm:"column:category"`
	Content   string    `gorm:"column:content;type:text"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedBy int64     `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (DocumentTemplate) TableName() string {
	return "document_templates"
}
