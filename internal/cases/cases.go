package cases

import (
	"strings"
	"time"

	"github.com/google/uuid"

	casesDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/cases"
)

// Case is a customs violation case worked by an officer tier. HierarchyLevel
// records the rank the case is pinned to; the synchronization rules decide
// which other ranks may see, assign or modify it.
type Case struct {
	ID             int64      `json:"id"`
	Reference      string     `json:"reference"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	HierarchyLevel int        `json:"hierarchy_level"`
	AssignedTo     *int64     `json:"assigned_to,omitempty"`
	CreatedBy      int64      `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

func (c *Case) IsClosed() bool {
	return c.Status == StatusClosed
}

func (c *Case) Close() {
	now := time.Now()
	c.Status = StatusClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
}

// NewReference mints a case reference like CUS-2026-4F9A1C3B. The reference
// is the externally quoted identifier; the numeric ID stays internal.
func NewReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "CUS-" + now.Format("2006") + "-" + suffix
}

func NewCase(creatorID int64, hierarchyLevel int, dto CreateCaseDTO) *Case {
	now := time.Now()
	return &Case{
		Reference:      NewReference(now),
		Title:          dto.Title,
		Description:    dto.Description,
		Status:         StatusOpen,
		HierarchyLevel: hierarchyLevel,
		CreatedBy:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func ToDataModel(c *Case) *casesDatamodel.Case {
	return &casesDatamodel.Case{
		ID:             c.ID,
		Reference:      c.Reference,
		Title:          c.Title,
		Description:    c.Description,
		Status:         c.Status,
		HierarchyLevel: c.HierarchyLevel,
		AssignedTo:     c.AssignedTo,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		ClosedAt:       c.ClosedAt,
	}
}

func FromDataModel(c *casesDatamodel.Case) *Case {
	return &Case{
		ID:             c.ID,
		Reference:      c.Reference,
		Title:          c.Title,
		Description:    c.Description,
		Status:         c.Status,
		HierarchyLevel: c.HierarchyLevel,
		AssignedTo:     c.AssignedTo,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		ClosedAt:       c.ClosedAt,
	}
}

func FromDataModelSlice(records []*casesDatamodel.Case) []*Case {
	result := make([]*Case, len(records))
	for i, c := range records {
		result[i] = FromDataModel(c)
	}
	return result
}
