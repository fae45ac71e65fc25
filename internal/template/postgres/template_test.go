package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
	"github.com/wkusuma/customs-case-management/internal/template"
	templatePostgres "github.com/wkusuma/customs-case-management/internal/template/postgres"
)

func TestTemplatePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Template Postgres Suite")
}

// SQLiteTemplate is a SQLite-compatible model for testing
type SQLiteTemplate struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Category  string    `gorm:"column:category"`
	Content   string    `gorm:"column:content"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedBy int64     `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteTemplate) TableName() string {
	return "document_templates"
}

var _ = Describe("Template PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo template.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTemplate{})
		Expect(err).NotTo(HaveOccurred())

		repo = templatePostgres.NewTemplateRepository(db)
	})

	newRecord := func(name, category string) *templateDatamodel.DocumentTemplate {
		return &templateDatamodel.DocumentTemplate{
			Name:      name,
			Category:  category,
			Content:   "To whom it may concern,",
			IsActive:  true,
			CreatedBy: 1,
		}
	}

	Describe("Create", func() {
		It("should create a template and backfill its ID", func() {
			record := newRecord("seizure-notice", "violations")

			err := repo.Create(record)

			Expect(err).NotTo(HaveOccurred())
			Expect(record.ID).To(BeNumerically(">", 0))
		})

		It("should enforce unique names", func() {
			Expect(repo.Create(newRecord("summons", "cases"))).To(Succeed())
			Expect(repo.Create(newRecord("summons", "cases"))).NotTo(Succeed())
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			Expect(repo.Create(newRecord("seizure-notice", "violations"))).To(Succeed())
			Expect(repo.Create(newRecord("summons", "cases"))).To(Succeed())
			Expect(repo.Create(newRecord("violation-report", "violations"))).To(Succeed())
		})

		It("should return all templates ordered by name", func() {
			templates, err := repo.GetAll("")

			Expect(err).NotTo(HaveOccurred())
			Expect(templates).To(HaveLen(3))
			Expect(templates[0].Name).To(Equal("seizure-notice"))
		})

		It("should filter by category", func() {
			templates, err := repo.GetAll("violations")

			Expect(err).NotTo(HaveOccurred())
			Expect(templates).To(HaveLen(2))
		})
	})

	Describe("GetByName", func() {
		It("should return nil without error when the name is unused", func() {
			record, err := repo.GetByName("missing")

			Expect(err).NotTo(HaveOccurred())
			Expect(record).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist content changes and deactivation", func() {
			record := newRecord("summons", "cases")
			Expect(repo.Create(record)).To(Succeed())

			record.Content = "You are hereby summoned"
			record.IsActive = false
			Expect(repo.Update(record)).To(Succeed())

			retrieved, err := repo.GetByID(record.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Content).To(Equal("You are hereby summoned"))
			Expect(retrieved.IsActive).To(BeFalse())
		})
	})
})
