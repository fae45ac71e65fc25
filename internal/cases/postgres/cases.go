package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wkusuma/customs-case-management/internal"
	"github.com/wkusuma/customs-case-management/internal/cases"
	casesDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/cases"
)

// CaseRepository implements cases.Repository using GORM
type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) cases.Repository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(c *cases.Case) error {
	record := cases.ToDataModel(c)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	c.ID = record.ID
	return nil
}

func (r *CaseRepository) GetByID(id int64) (*cases.Case, error) {
	var record casesDatamodel.Case
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCaseNotFound
		}
		return nil, err
	}
	return cases.FromDataModel(&record), nil
}

// ListByLevels returns cases pinned to any of the given hierarchy levels,
// newest first.
func (r *CaseRepository) ListByLevels(levels []int, limit, offset int) ([]*cases.Case, error) {
	var records []*casesDatamodel.Case
	err := r.db.Where("hierarchy_level IN ?", levels).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return cases.FromDataModelSlice(records), nil
}

func (r *CaseRepository) Update(c *cases.Case) error {
	c.UpdatedAt = time.Now()
	return r.db.Save(cases.ToDataModel(c)).Error
}
