package template

import (
	"log/slog"
	"time"

	"github.com/wkusuma/customs-case-management/internal"
	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
)

type RepositoryAPI interface {
	GetAll(category string) ([]*templateDatamodel.DocumentTemplate, error)
	GetByID(id int64) (*templateDatamodel.DocumentTemplate, error)
	GetByName(name string) (*templateDatamodel.DocumentTemplate, error)
	Create(t *templateDatamodel.DocumentTemplate) error
	Update(t *templateDatamodel.DocumentTemplate) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListTemplates returns active templates, optionally filtered by category.
func (s *Service) ListTemplates(category string) ([]*DocumentTemplate, error) {
	records, err := s.repo.GetAll(category)
	if err != nil {
		s.logger.Error("failed to list templates", "error", err)
		return nil, err
	}

	var result []*DocumentTemplate
	for _, record := range records {
		if record.IsActive {
			result = append(result, FromDataModel(record))
		}
	}
	return result, nil
}

func (s *Service) GetTemplate(id int64) (*DocumentTemplate, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.IsActive {
		return nil, internal.ErrTemplateNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) CreateTemplate(creatorID int64, dto CreateTemplateDTO) (*DocumentTemplate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check template name", "error", err, "name", dto.Name)
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrTemplateNameTaken
	}

	t := NewDocumentTemplate(creatorID, dto)
	record := ToDataModel(t)
	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create template", "error", err, "name", dto.Name)
		return nil, err
	}
	t.ID = record.ID

	s.logger.Info("template created", "template_id", t.ID, "name", t.Name, "user_id", creatorID)
	return t, nil
}

func (s *Service) UpdateTemplate(id int64, dto UpdateTemplateDTO) (*DocumentTemplate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.IsActive {
		return nil, internal.ErrTemplateNotFound
	}

	if dto.Name != "" && dto.Name != record.Name {
		existing, err := s.repo.GetByName(dto.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, internal.ErrTemplateNameTaken
		}
		record.Name = dto.Name
	}
	if dto.Category != "" {
		record.Category = dto.Category
	}
	if dto.Content != "" {
		record.Content = dto.Content
	}
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update template", "error", err, "template_id", id)
		return nil, err
	}

	s.logger.Info("template updated", "template_id", id)
	return FromDataModel(record), nil
}

// DeleteTemplate deactivates a template; rows are never removed so documents
// generated from old templates stay traceable.
func (s *Service) DeleteTemplate(id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil || !record.IsActive {
		return internal.ErrTemplateNotFound
	}

	record.IsActive = false
	record.UpdatedAt = time.Now()
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate template", "error", err, "template_id", id)
		return err
	}

	s.logger.Info("template deactivated", "template_id", id)
	return nil
}
