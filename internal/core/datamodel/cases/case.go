package cases

import "time"

type Case struct {
	ID             int64      `gorm:"primaryKey"`
	Reference      string     `gorm:"column:reference;uniqueIndex;not null"`
	Title          string     `gorm:"column:title;not null"`
	Description    string     `gorm:"column:description"`
	Status         string     `gorm:"column:status;not null;default:open"`
	HierarchyLevel int        `gorm:"column:hierarchy_level;not null;index"`
	AssignedTo     *int64     `gorm:"column:assigned_to"`
	CreatedBy      int64      `gorm:"column:created_by;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	ClosedAt       *time.Time `gorm:"column:closed_at"`
}

func (Case) TableName() string {
	return "cases"
}
