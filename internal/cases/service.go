package cases

import (
	"log/slog"
	"time"

	"github.com/wkusuma/customs-case-management/internal"
	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
	"github.com/wkusuma/customs-case-management/internal/auth"
)

// Repository defines the data access methods for cases
type Repository interface {
	Create(c *Case) error
	GetByID(id int64) (*Case, error)
	ListByLevels(levels []int, limit, offset int) ([]*Case, error)
	Update(c *Case) error
}

// Directory resolves case assignees. Deactivated users do not resolve.
type Directory interface {
	ActiveUserLevel(userID int64) (int, error)
}

// Service applies the case synchronization rules on top of the repository:
// every read is filtered to the actor's view set, and every write is checked
// against the assign or modify set for the case's pinned level.
type Service struct {
	repo      Repository
	directory Directory
	logger    *slog.Logger
}

func NewService(repo Repository, directory Directory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// ListCases returns the cases visible to the actor's rank, newest first.
func (s *Service) ListCases(actor *auth.User, limit, offset int) ([]*Case, error) {
	rule := accesscontrol.CaseSynchronizationRule(actor.HierarchyLevel)
	if len(rule.CanView) == 0 {
		return []*Case{}, nil
	}

	records, err := s.repo.ListByLevels(rule.CanView, limit, offset)
	if err != nil {
		s.logger.Error("failed to list cases", "error", err, "user_id", actor.ID)
		return nil, err
	}
	return records, nil
}

// GetCase returns one case when the actor's rank may view its level. A case
// outside the view set reads as not found, so its existence is not leaked.
func (s *Service) GetCase(actor *auth.User, caseID int64) (*Case, error) {
	c, err := s.repo.GetByID(caseID)
	if err != nil {
		return nil, err
	}
	if !accesscontrol.CanViewLevel(actor.HierarchyLevel, c.HierarchyLevel) {
		s.logger.Warn("case read outside view set",
			"case_id", caseID,
			"user_id", actor.ID,
			"actor_level", actor.HierarchyLevel,
			"case_level", c.HierarchyLevel)
		return nil, internal.ErrCaseNotFound
	}
	return c, nil
}

// CreateCase opens a case pinned to the creator's own hierarchy level.
func (s *Service) CreateCase(actor *auth.User, dto CreateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	c := NewCase(actor.ID, actor.HierarchyLevel, dto)
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create case", "error", err, "user_id", actor.ID)
		return nil, err
	}

	s.logger.Info("case opened",
		"case_id", c.ID,
		"reference", c.Reference,
		"user_id", actor.ID,
		"hierarchy_level", c.HierarchyLevel)
	return c, nil
}

// AssignCase hands a case to another officer. The actor's rank must hold the
// case's level in its assign set, and the assignee must be active and able to
// view the case.
func (s *Service) AssignCase(actor *auth.User, caseID int64, dto AssignCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	c, err := s.GetCase(actor, caseID)
	if err != nil {
		return nil, err
	}
	if !accesscontrol.CanAssignLevel(actor.HierarchyLevel, c.HierarchyLevel) {
		s.logger.Warn("case assignment denied",
			"case_id", caseID,
			"user_id", actor.ID,
			"actor_level", actor.HierarchyLevel,
			"case_level", c.HierarchyLevel)
		return nil, internal.ErrCaseAccessDenied
	}
	if c.IsClosed() {
		return nil, internal.ErrInvalidCaseStatus
	}

	assigneeLevel, err := s.directory.ActiveUserLevel(dto.AssigneeID)
	if err != nil {
		return nil, internal.ErrAssigneeNotFound
	}
	if !accesscontrol.CanViewLevel(assigneeLevel, c.HierarchyLevel) {
		return nil, internal.NewValidationError("assignee cannot work cases at this level", internal.ErrCodeValidationFailed)
	}

	c.AssignedTo = &dto.AssigneeID
	c.Status = StatusInProgress
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to assign case", "error", err, "case_id", caseID)
		return nil, err
	}

	s.logger.Info("case assigned",
		"case_id", caseID,
		"assignee_id", dto.AssigneeID,
		"user_id", actor.ID)
	return c, nil
}

// UpdateCase modifies a case's title, description or status. The actor's rank
// must hold the case's level in its modify set. A closed case only accepts a
// reopen (status back to open or in_progress).
func (s *Service) UpdateCase(actor *auth.User, caseID int64, dto UpdateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	c, err := s.GetCase(actor, caseID)
	if err != nil {
		return nil, err
	}
	if !accesscontrol.CanModifyLevel(actor.HierarchyLevel, c.HierarchyLevel) {
		s.logger.Warn("case modification denied",
			"case_id", caseID,
			"user_id", actor.ID,
			"actor_level", actor.HierarchyLevel,
			"case_level", c.HierarchyLevel)
		return nil, internal.ErrCaseAccessDenied
	}
	if c.IsClosed() && dto.Status == "" {
		return nil, internal.ErrInvalidCaseStatus
	}

	if dto.Title != "" {
		c.Title = dto.Title
	}
	if dto.Description != "" {
		c.Description = dto.Description
	}
	switch dto.Status {
	case "":
	case StatusClosed:
		c.Close()
	default:
		c.Status = dto.Status
		c.ClosedAt = nil
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update case", "error", err, "case_id", caseID)
		return nil, err
	}

	s.logger.Info("case updated",
		"case_id", caseID,
		"user_id", actor.ID,
		"status", c.Status)
	return c, nil
}
