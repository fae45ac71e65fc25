package cases

import "errors"

// CreateCaseDTO is the request payload for opening a case
type CreateCaseDTO struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (dto CreateCaseDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if len(dto.Title) > 200 {
		return errors.New("title must be less than 200 characters")
	}
	if len(dto.Description) > 2000 {
		return errors.New("description must be less than 2000 characters")
	}
	return nil
}

// UpdateCaseDTO is the request payload for modifying a case. Empty fields
// are left unchanged.
type UpdateCaseDTO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (dto UpdateCaseDTO) Validate() error {
	if dto.Title == "" && dto.Description == "" && dto.Status == "" {
		return errors.New("nothing to update")
	}
	if len(dto.Title) > 200 {
		return errors.New("title must be less than 200 characters")
	}
	if len(dto.Description) > 2000 {
		return errors.New("description must be less than 2000 characters")
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return errors.New("status must be one of open, in_progress, closed")
	}
	return nil
}

// AssignCaseDTO is the request payload for assigning a case to an officer
type AssignCaseDTO struct {
	AssigneeID int64 `json:"assignee_id" validate:"required"`
}

func (dto AssignCaseDTO) Validate() error {
	if dto.AssigneeID <= 0 {
		return errors.New("assignee_id is required")
	}
	return nil
}

type CasesResponse struct {
	Cases  []*Case `json:"cases"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
