package user

import "time"

type User struct {
	ID                  int64      `gorm:"primaryKey"`
	Username            string     `gorm:"column:username;uniqueIndex;not null"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	Name                string     `gorm:"column:name;not null"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	RoleID              int64      `gorm:"column:role_id;not null"`
	IsActive            bool       `gorm:"column:is_active;default:true"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;default:0"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
	LastLoginAt         *time.Time `gorm:"column:last_login_at"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;uniqueIndex;not null"`
	Description    string    `gorm:"column:description"`
	HierarchyLevel int       `gorm:"column:hierarchy_level;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Role) TableName() string {
	return "user_roles"
}

type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Resource    string    `gorm:"column:resource;not null;uniqueIndex:idx_permissions_resource_action"`
	Action      string    `gorm:"column:action;not null;uniqueIndex:idx_permissions_resource_action"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	RoleID       int64     `gorm:"column:role_id;not null"`
	PermissionID int64     `gorm:"column:permission_id;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserPermission struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null"`
	PermissionID int64     `gorm:"column:permission_id;not null"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
