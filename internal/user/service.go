package user

import (
	"fmt"

	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetPermissions(userID int64) ([]string, error)
	ActiveUserLevel(userID int64) (int, error)
}

type Service struct {
	repo     Repository
	registry *accesscontrol.Registry
}

func NewService(repo Repository, registry *accesscontrol.Registry) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
	}
}

// GetProfile assembles the current-user payload: profile, effective
// permissions, and the modules the user's rank unlocks.
func (s *Service) GetProfile(userID int64) (*Profile, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	perms, err := s.repo.GetPermissions(userID)
	if err != nil {
		return nil, fmt.Errorf("get user permissions: %w", err)
	}
	u.Permissions = perms

	return &Profile{
		User:    u,
		Modules: s.registry.ModulesVisibleTo(u.Role, u.HierarchyLevel),
	}, nil
}

// ActiveUserLevel reports the hierarchy level of an active user, for case
// assignment checks.
func (s *Service) ActiveUserLevel(userID int64) (int, error) {
	return s.repo.ActiveUserLevel(userID)
}
