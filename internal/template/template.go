package template

import (
	"time"

	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
)

// DocumentTemplate is a reusable text body for customs paperwork: seizure
// notices, violation reports, summons and the like.
type DocumentTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"is_active"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *DocumentTemplate) Deactivate() {
	t.IsActive = false
	t.UpdatedAt = time.Now()
}

func NewDocumentTemplate(creatorID int64, dto CreateTemplateDTO) *DocumentTemplate {
	now := time.Now()
	return &DocumentTemplate{
		Name:      dto.Name,
		Category:  dto.Category,
		Content:   dto.Content,
		IsActive:  true,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(t *DocumentTemplate) *templateDatamodel.DocumentTemplate {
	return &templateDatamodel.DocumentTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category,
		Content:   t.Content,
		IsActive:  t.IsActive,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(t *templateDatamodel.DocumentTemplate) *DocumentTemplate {
	return &DocumentTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category,
		Content:   t.Content,
		IsActive:  t.IsActive,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModelSlice(records []*templateDatamodel.DocumentTemplate) []*DocumentTemplate {
	result := make([]*DocumentTemplate, len(records))
	for i, t := range records {
		result[i] = FromDataModel(t)
	}
	return result
}
