package postgres

import (
	"errors"

	"gorm.io/gorm"

	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
	"github.com/wkusuma/customs-case-management/internal/template"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) template.RepositoryAPI {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) GetAll(category string) ([]*templateDatamodel.DocumentTemplate, error) {
	query := r.db.Order("name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var templates []*templateDatamodel.DocumentTemplate
	err := query.Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) GetByID(id int64) (*templateDatamodel.DocumentTemplate, error) {
	var t templateDatamodel.DocumentTemplate
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) GetByName(name string) (*templateDatamodel.DocumentTemplate, error) {
	var t templateDatamodel.DocumentTemplate
	err := r.db.Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Create(t *templateDatamodel.DocumentTemplate) error {
	return r.db.Create(t).Error
}

func (r *TemplateRepository) Update(t *templateDatamodel.DocumentTemplate) error {
	return r.db.Save(t).Error
}
