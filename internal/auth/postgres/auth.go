package postgres

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wkusuma/customs-case-management/internal/auth"
	auditDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/audit"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// FindByIdentifier fetches the account whose username or email equals the
// identifier, case-sensitive, together with its role.
func (r *Repository) FindByIdentifier(identifier string) (*auth.Account, error) {
	query := `SELECT u.id, u.username, u.email, u.name, u.password_hash, u.role_id,
	                 r.name, r.hierarchy_level,
	                 u.is_active, u.failed_login_attempts, u.locked_until, u.last_login_at
	          FROM users u
	          JOIN user_roles r ON r.id = u.role_id
	          WHERE u.username = ? OR u.email = ?`

	var account auth.Account
	row := r.db.Raw(query, identifier, identifier).Row()
	err := row.Scan(
		&account.ID, &account.Username, &account.Email, &account.Name,
		&account.PasswordHash, &account.RoleID,
		&account.RoleName, &account.HierarchyLevel,
		&account.IsActive, &account.FailedLoginAttempts,
		&account.LockedUntil, &account.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// RecordFailedAttempt bumps the failed-attempt counter and conditionally sets
// the lockout expiry in one statement, so concurrent failed attempts cannot
// lose updates.
func (r *Repository) RecordFailedAttempt(userID int64, threshold int, lockout time.Duration) (int, *time.Time, error) {
	query := `UPDATE users
	          SET failed_login_attempts = failed_login_attempts + 1,
	              locked_until = CASE
	                  WHEN failed_login_attempts + 1 >= ? THEN now() + make_interval(secs => ?)
	                  ELSE locked_until
	              END,
	              updated_at = now()
	          WHERE id = ?
	          RETURNING failed_login_attempts, locked_until`

	var attempts int
	var lockedUntil *time.Time
	row := r.db.Raw(query, threshold, lockout.Seconds(), userID).Row()
	if err := row.Scan(&attempts, &lockedUntil); err != nil {
		return 0, nil, err
	}
	return attempts, lockedUntil, nil
}

// ResetLockout clears the counter and lockout expiry together and records the
// successful login time.
func (r *Repository) ResetLockout(userID int64, lastLogin time.Time) error {
	query := `UPDATE users
	          SET failed_login_attempts = 0,
	              locked_until = NULL,
	              last_login_at = ?,
	              updated_at = now()
	          WHERE id = ?`

	return r.db.Exec(query, lastLogin, userID).Error
}

func (r *Repository) GetRolePermissions(roleID int64) ([]auth.Permission, error) {
	query := `SELECT p.resource, p.action
	          FROM permissions p
	          JOIN role_permissions rp ON p.id = rp.permission_id
	          WHERE rp.role_id = ?`

	return r.scanPermissions(query, roleID)
}

func (r *Repository) GetUserPermissions(userID int64) ([]auth.Permission, error) {
	query := `SELECT p.resource, p.action
	          FROM permissions p
	          JOIN user_permissions up ON p.id = up.permission_id
	          WHERE up.user_id = ?`

	return r.scanPermissions(query, userID)
}

func (r *Repository) scanPermissions(query string, arg int64) ([]auth.Permission, error) {
	rows, err := r.db.Raw(query, arg).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []auth.Permission
	for rows.Next() {
		var p auth.Permission
		if err := rows.Scan(&p.Resource, &p.Action); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}

// AppendAuditEvent inserts one append-only audit row.
func (r *Repository) AppendAuditEvent(event *auth.AuditEvent) error {
	row := auditDatamodel.AuditLog{
		ID:        event.ID,
		UserID:    event.UserID,
		Username:  event.Username,
		Event:     event.Event,
		IPAddress: event.IPAddress,
		Detail:    event.Detail,
		CreatedAt: event.CreatedAt,
	}
	return r.db.Create(&row).Error
}

// GetUserWithPermissions loads an active user's profile plus the union of
// role and direct permissions, used by the request middleware.
func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	query := `SELECT u.id, u.username, u.email, u.name, u.role_id, r.name, r.hierarchy_level, u.last_login_at
	          FROM users u
	          JOIN user_roles r ON r.id = u.role_id
	          WHERE u.id = ? AND u.is_active = true`

	var user auth.User
	var roleID int64
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Name,
		&roleID, &user.Role, &user.HierarchyLevel, &user.LastLoginAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}

	rolePerms, err := r.GetRolePermissions(roleID)
	if err != nil {
		return nil, err
	}
	userPerms, err := r.GetUserPermissions(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rolePerms)+len(userPerms))
	for _, p := range append(rolePerms, userPerms...) {
		name := p.CanonicalName()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		user.Permissions = append(user.Permissions, name)
	}

	return &user, nil
}
