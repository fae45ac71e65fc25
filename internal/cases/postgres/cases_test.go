package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wkusuma/customs-case-management/internal"
	"github.com/wkusuma/customs-case-management/internal/cases"
)

func TestCaseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CaseRepository Suite")
}

// SQLiteCase mirrors the cases table without the postgres column defaults so
// AutoMigrate works against the in-memory database.
type SQLiteCase struct {
	ID             int64      `gorm:"primaryKey"`
	Reference      string     `gorm:"column:reference;uniqueIndex;not null"`
	Title          string     `gorm:"column:title;not null"`
	Description    string     `gorm:"column:description"`
	Status         string     `gorm:"column:status;default:'open'"`
	HierarchyLevel int        `gorm:"column:hierarchy_level;not null"`
	AssignedTo     *int64     `gorm:"column:assigned_to"`
	CreatedBy      int64      `gorm:"column:created_by;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	ClosedAt       *time.Time `gorm:"column:closed_at"`
}

func (SQLiteCase) TableName() string {
	return "cases"
}

var _ = Describe("CaseRepository", func() {
	var (
		db   *gorm.DB
		repo cases.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteCase{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewCaseRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	newCase := func(level int, title string) *cases.Case {
		now := time.Now()
		return &cases.Case{
			Reference:      cases.NewReference(now),
			Title:          title,
			Status:         cases.StatusOpen,
			HierarchyLevel: level,
			CreatedBy:      1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	Describe("Create", func() {
		It("should persist a case and backfill its ID", func() {
			c := newCase(1, "undeclared cargo at dock 3")

			err := repo.Create(c)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate reference", func() {
			c := newCase(1, "first")
			Expect(repo.Create(c)).To(Succeed())

			dup := newCase(1, "second")
			dup.Reference = c.Reference

			Expect(repo.Create(dup)).NotTo(Succeed())
		})
	})

	Describe("GetByID", func() {
		It("should retrieve a stored case", func() {
			c := newCase(2, "misdeclared tariff code")
			Expect(repo.Create(c)).To(Succeed())

			retrieved, err := repo.GetByID(c.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Reference).To(Equal(c.Reference))
			Expect(retrieved.Title).To(Equal(c.Title))
			Expect(retrieved.HierarchyLevel).To(Equal(2))
		})

		It("should return ErrCaseNotFound for a missing ID", func() {
			_, err := repo.GetByID(99999)

			Expect(err).To(Equal(internal.ErrCaseNotFound))
		})
	})

	Describe("ListByLevels", func() {
		BeforeEach(func() {
			for level := 1; level <= 4; level++ {
				Expect(repo.Create(newCase(level, "case"))).To(Succeed())
			}
		})

		It("should return only cases at the requested levels", func() {
			result, err := repo.ListByLevels([]int{1, 2}, 20, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			for _, c := range result {
				Expect(c.HierarchyLevel).To(BeElementOf(1, 2))
			}
		})

		It("should honor the limit", func() {
			result, err := repo.ListByLevels([]int{1, 2, 3, 4}, 2, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
		})
	})

	Describe("Update", func() {
		It("should persist assignment and status changes", func() {
			c := newCase(1, "original")
			Expect(repo.Create(c)).To(Succeed())

			assignee := int64(7)
			c.AssignedTo = &assignee
			c.Status = cases.StatusInProgress
			Expect(repo.Update(c)).To(Succeed())

			retrieved, err := repo.GetByID(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal(cases.StatusInProgress))
			Expect(retrieved.AssignedTo).NotTo(BeNil())
			Expect(*retrieved.AssignedTo).To(Equal(assignee))
		})
	})
})
