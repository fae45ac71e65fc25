package audit

import "time"

// Event names recorded for login outcomes. The table is append-only; rows are
// never updated or deleted by the application.
const (
	EventLoginSuccess = "login_success"
	EventLoginFailed  = "login_failed"
)

type AuditLog struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    *int64    `gorm:"column:user_id;index"`
	Username  string    `gorm:"column:username"`
	Event     string    `gorm:"column:event;not null;index"`
	IPAddress string    `gorm:"column:ip_address"`
	Detail    string    `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
