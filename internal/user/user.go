package user

import (
	"errors"
	"time"

	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
	userDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/user"
)

// User is the profile of a customs officer, without credentials.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	HierarchyLevel int        `json:"hierarchy_level"`
	IsActive       bool       `json:"is_active"`
	Permissions    []string   `json:"permissions"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile is the GET /users/me payload: the user plus the modules their rank
// unlocks.
type Profile struct {
	User    *User                            `json:"user"`
	Modules []accesscontrol.ModuleDescriptor `json:"modules"`
}

var ErrNotFound = errors.New("user not found")

func FromDataModel(u *userDatamodel.User, roleName string, hierarchyLevel int) *User {
	return &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		Role:           roleName,
		HierarchyLevel: hierarchyLevel,
		IsActive:       u.IsActive,
		Permissions:    []string{},
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
