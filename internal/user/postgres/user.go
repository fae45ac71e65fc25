package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	userDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/user"
	"github.com/wkusuma/customs-case-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	query := `SELECT u.id, u.username, u.email, u.name, u.is_active, u.last_login_at,
	                 u.created_at, u.updated_at, r.name, r.hierarchy_level
	          FROM users u
	          JOIN user_roles r ON r.id = u.role_id
	          WHERE u.id = ?`

	var (
		record         userDatamodel.User
		roleName       string
		hierarchyLevel int
	)
	row := r.db.Raw(query, userID).Row()
	err := row.Scan(
		&record.ID, &record.Username, &record.Email, &record.Name,
		&record.IsActive, &record.LastLoginAt,
		&record.CreatedAt, &record.UpdatedAt,
		&roleName, &hierarchyLevel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&record, roleName, hierarchyLevel), nil
}

// GetPermissions returns the deduplicated union of role-granted and
// directly-granted permissions as resource:action names.
func (r *UserRepository) GetPermissions(userID int64) ([]string, error) {
	query := `SELECT DISTINCT p.resource || ':' || p.action
	          FROM permissions p
	          JOIN role_permissions rp ON p.id = rp.permission_id
	          JOIN users u ON u.role_id = rp.role_id
	          WHERE u.id = ?
	          UNION
	          SELECT p.resource || ':' || p.action
	          FROM permissions p
	          JOIN user_permissions up ON p.id = up.permission_id
	          WHERE up.user_id = ?`

	rows, err := r.db.Raw(query, userID, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		permissions = append(permissions, name)
	}
	return permissions, rows.Err()
}

// ActiveUserLevel reports the hierarchy level of an active user. Deactivated
// or missing users read as not found.
func (r *UserRepository) ActiveUserLevel(userID int64) (int, error) {
	query := `SELECT r.hierarchy_level
	          FROM users u
	          JOIN user_roles r ON r.id = u.role_id
	          WHERE u.id = ? AND u.is_active = true`

	var level int
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&level); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, user.ErrNotFound
		}
		return 0, err
	}
	return level, nil
}
