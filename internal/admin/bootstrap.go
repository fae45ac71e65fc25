package admin

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
	"github.com/wkusuma/customs-case-management/internal/auth"
	auditDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/audit"
	casesDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/cases"
	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
	userDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/user"
)

// BootstrapResult summarizes what one bootstrap run actually did. Counts only
// cover rows created by this run; re-running against a prepared database
// reports zeroes everywhere.
type BootstrapResult struct {
	RolesCreated       int  `json:"roles_created"`
	PermissionsCreated int  `json:"permissions_created"`
	GrantsCreated      int  `json:"grants_created"`
	AdminCreated       bool `json:"admin_created"`
}

// Bootstrapper prepares an empty database: schema, the four roles, the
// permission catalogue, role grants, and one Director-rank admin account.
// Every step is idempotent, so it is safe to run on a live database.
type Bootstrapper struct {
	db            *gorm.DB
	logger        *slog.Logger
	adminPassword string
	bcryptCost    int
}

func NewBootstrapper(db *gorm.DB, logger *slog.Logger, adminPassword string, bcryptCost int) *Bootstrapper {
	return &Bootstrapper{
		db:            db,
		logger:        logger,
		adminPassword: adminPassword,
		bcryptCost:    bcryptCost,
	}
}

type roleSeed struct {
	name           string
	description    string
	hierarchyLevel int
}

var roleSeeds = []roleSeed{
	{accesscontrol.RoleOfficer, "Field customs officer", accesscontrol.LevelOfficer},
	{accesscontrol.RoleSupervisor, "Shift supervisor", accesscontrol.LevelSupervisor},
	{accesscontrol.RoleSectorChief, "Sector chief", accesscontrol.LevelSectorChief},
	{accesscontrol.RoleDirector, "Directorate head", accesscontrol.LevelDirector},
}

type permissionSeed struct {
	resource    string
	action      string
	description string
}

var permissionSeeds = []permissionSeed{
	{"cases", "view", "View violation cases"},
	{"cases", "create", "Open violation cases"},
	{"cases", "assign", "Assign cases to officers"},
	{"cases", "modify", "Modify violation cases"},
	{"templates", "view", "View document templates"},
	{"templates", "manage", "Create, edit and retire document templates"},
	{"modules", "view", "List accessible modules"},
	{"users", "manage", "Manage officer accounts"},
	{"reports", "view", "View summary reports"},
}

// rolePermissionSeeds maps role name to the resource:action pairs it grants.
var rolePermissionSeeds = map[string][][2]string{
	accesscontrol.RoleOfficer: {
		{"cases", "view"}, {"cases", "create"}, {"cases", "modify"},
		{"templates", "view"}, {"modules", "view"},
	},
	accesscontrol.RoleSupervisor: {
		{"cases", "view"}, {"cases", "create"}, {"cases", "assign"}, {"cases", "modify"},
		{"templates", "view"}, {"modules", "view"}, {"reports", "view"},
	},
	accesscontrol.RoleSectorChief: {
		{"cases", "view"}, {"cases", "create"}, {"cases", "assign"}, {"cases", "modify"},
		{"templates", "view"}, {"templates", "manage"}, {"modules", "view"}, {"reports", "view"},
	},
	accesscontrol.RoleDirector: {
		{"cases", "view"}, {"cases", "create"}, {"cases", "assign"}, {"cases", "modify"},
		{"templates", "view"}, {"templates", "manage"}, {"modules", "view"},
		{"users", "manage"}, {"reports", "view"},
	},
}

// Run prepares the schema and seed data. Already-present rows are left
// untouched.
func (b *Bootstrapper) Run() (*BootstrapResult, error) {
	result := &BootstrapResult{}

	if err := b.db.AutoMigrate(
		&userDatamodel.Role{},
		&userDatamodel.User{},
		&userDatamodel.Permission{},
		&userDatamodel.RolePermission{},
		&userDatamodel.UserPermission{},
		&auditDatamodel.AuditLog{},
		&casesDatamodel.Case{},
		&templateDatamodel.DocumentTemplate{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	roleIDs := make(map[string]int64, len(roleSeeds))
	for _, seed := range roleSeeds {
		var role userDatamodel.Role
		err := b.db.Where("name = ?", seed.name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = userDatamodel.Role{
				Name:           seed.name,
				Description:    seed.description,
				HierarchyLevel: seed.hierarchyLevel,
			}
			if err := b.db.Create(&role).Error; err != nil {
				return nil, fmt.Errorf("seed role %s: %w", seed.name, err)
			}
			result.RolesCreated++
		} else if err != nil {
			return nil, fmt.Errorf("seed role %s: %w", seed.name, err)
		}
		roleIDs[seed.name] = role.ID
	}

	permissionIDs := make(map[[2]string]int64, len(permissionSeeds))
	for _, seed := range permissionSeeds {
		var permission userDatamodel.Permission
		err := b.db.Where("resource = ? AND action = ?", seed.resource, seed.action).First(&permission).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			permission = userDatamodel.Permission{
				Resource:    seed.resource,
				Action:      seed.action,
				Description: seed.description,
			}
			if err := b.db.Create(&permission).Error; err != nil {
				return nil, fmt.Errorf("seed permission %s:%s: %w", seed.resource, seed.action, err)
			}
			result.PermissionsCreated++
		} else if err != nil {
			return nil, fmt.Errorf("seed permission %s:%s: %w", seed.resource, seed.action, err)
		}
		permissionIDs[[2]string{seed.resource, seed.action}] = permission.ID
	}

	for roleName, grants := range rolePermissionSeeds {
		roleID := roleIDs[roleName]
		for _, grant := range grants {
			permissionID, ok := permissionIDs[grant]
			if !ok {
				return nil, fmt.Errorf("grant references unknown permission %s:%s", grant[0], grant[1])
			}
			var link userDatamodel.RolePermission
			err := b.db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).First(&link).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				link = userDatamodel.RolePermission{RoleID: roleID, PermissionID: permissionID}
				if err := b.db.Create(&link).Error; err != nil {
					return nil, fmt.Errorf("grant %s -> %s:%s: %w", roleName, grant[0], grant[1], err)
				}
				result.GrantsCreated++
			} else if err != nil {
				return nil, fmt.Errorf("grant %s -> %s:%s: %w", roleName, grant[0], grant[1], err)
			}
		}
	}

	created, err := b.ensureAdmin(roleIDs[accesscontrol.RoleDirector])
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created

	b.logger.Info("database bootstrap finished",
		"roles_created", result.RolesCreated,
		"permissions_created", result.PermissionsCreated,
		"grants_created", result.GrantsCreated,
		"admin_created", result.AdminCreated)
	return result, nil
}

func (b *Bootstrapper) ensureAdmin(directorRoleID int64) (bool, error) {
	var count int64
	if err := b.db.Model(&userDatamodel.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(b.adminPassword, b.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := userDatamodel.User{
		Username:     "admin",
		Email:        "admin@customs.local",
		Name:         "System Administrator",
		PasswordHash: hash,
		RoleID:       directorRoleID,
		IsActive:     true,
	}
	if err := b.db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin account: %w", err)
	}

	b.logger.Warn("default admin account created; change its password", "username", "admin")
	return true, nil
}
