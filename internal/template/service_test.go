package template

import (
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wkusuma/customs-case-management/internal"
	templateDatamodel "github.com/wkusuma/customs-case-management/internal/core/datamodel/template"
)

func TestTemplates(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Template Module Suite")
}

type mockTemplateRepository struct {
	templates map[int64]*templateDatamodel.DocumentTemplate
	nextID    int64
}

func newMockTemplateRepository() *mockTemplateRepository {
	return &mockTemplateRepository{
		templates: make(map[int64]*templateDatamodel.DocumentTemplate),
		nextID:    1,
	}
}

func (m *mockTemplateRepository) GetAll(category string) ([]*templateDatamodel.DocumentTemplate, error) {
	var result []*templateDatamodel.DocumentTemplate
	for _, t := range m.templates {
		if category == "" || t.Category == category {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockTemplateRepository) GetByID(id int64) (*templateDatamodel.DocumentTemplate, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTemplateRepository) GetByName(name string) (*templateDatamodel.DocumentTemplate, error) {
	for _, t := range m.templates {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockTemplateRepository) Create(t *templateDatamodel.DocumentTemplate) error {
	t.ID = m.nextID
	m.nextID++
	copied := *t
	m.templates[t.ID] = &copied
	return nil
}

func (m *mockTemplateRepository) Update(t *templateDatamodel.DocumentTemplate) error {
	copied := *t
	m.templates[t.ID] = &copied
	return nil
}

var _ = Describe("TemplateService", func() {
	var (
		service *Service
		repo    *mockTemplateRepository
	)

	BeforeEach(func() {
		repo = newMockTemplateRepository()
		service = NewService(repo, slog.Default())
	})

	Describe("CreateTemplate", func() {
		It("should create a template owned by the caller", func() {
			created, err := service.CreateTemplate(5, CreateTemplateDTO{
				Name:     "seizure-notice",
				Category: "violations",
				Content:  "Notice of seizure",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.CreatedBy).To(Equal(int64(5)))
			Expect(created.IsActive).To(BeTrue())
		})

		It("should refuse a name that is already taken", func() {
			_, err := service.CreateTemplate(5, CreateTemplateDTO{
				Name: "summons", Category: "cases", Content: "x",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateTemplate(6, CreateTemplateDTO{
				Name: "summons", Category: "cases", Content: "y",
			})
			Expect(err).To(Equal(internal.ErrTemplateNameTaken))
		})

		It("should reject missing fields", func() {
			_, err := service.CreateTemplate(5, CreateTemplateDTO{Name: "incomplete"})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListTemplates", func() {
		It("should omit deactivated templates", func() {
			created, err := service.CreateTemplate(5, CreateTemplateDTO{
				Name: "summons", Category: "cases", Content: "x",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteTemplate(created.ID)).To(Succeed())

			templates, err := service.ListTemplates("")
			Expect(err).NotTo(HaveOccurred())
			Expect(templates).To(BeEmpty())
		})
	})

	Describe("UpdateTemplate", func() {
		It("should apply partial updates", func() {
			created, err := service.CreateTemplate(5, CreateTemplateDTO{
				Name: "summons", Category: "cases", Content: "old",
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateTemplate(created.ID, UpdateTemplateDTO{Content: "new"})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Content).To(Equal("new"))
			Expect(updated.Name).To(Equal("summons"))
		})

		It("should return not found for a deactivated template", func() {
			created, err := service.CreateTemplate(5, CreateTemplateDTO{
				Name: "summons", Category: "cases", Content: "x",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteTemplate(created.ID)).To(Succeed())

			_, err = service.UpdateTemplate(created.ID, UpdateTemplateDTO{Content: "late"})
			Expect(err).To(Equal(internal.ErrTemplateNotFound))
		})
	})

	Describe("DeleteTemplate", func() {
		It("should return not found for an unknown ID", func() {
			Expect(service.DeleteTemplate(42)).To(Equal(internal.ErrTemplateNotFound))
		})
	})
})
