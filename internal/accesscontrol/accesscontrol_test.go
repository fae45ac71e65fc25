package accesscontrol

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccessControl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AccessControl Module Suite")
}

var _ = Describe("Module registry", func() {
	var registry *Registry

	BeforeEach(func() {
		var err error
		registry, err = LoadRegistry()
		Expect(err).ToNot(HaveOccurred())
		Expect(registry.Len()).To(BeNumerically(">", 0))
	})

	Describe("ModulesVisibleTo", func() {
		It("shows an Officer only modules at or below level 1", func() {
			visible := registry.ModulesVisibleTo(RoleOfficer, LevelOfficer)

			Expect(visible).ToNot(BeEmpty())
			for _, m := range visible {
				Expect(m.Active).To(BeTrue())
				Expect(m.MinLevel).To(BeNumerically("<=", LevelOfficer))
				if len(m.AllowedRoles) > 0 {
					Expect(m.AllowedRoles).To(ContainElement(RoleOfficer))
				}
			}
		})

		It("hides supervisor-gated modules from an Officer", func() {
			visible := registry.ModulesVisibleTo(RoleOfficer, LevelOfficer)

			ids := make([]string, 0, len(visible))
			for _, m := range visible {
				ids = append(ids, m.ID)
			}
			Expect(ids).ToNot(ContainElement("violations.review"))
			Expect(ids).ToNot(ContainElement("admin.users"))
		})

		It("shows a Director the full active registry", func() {
			visible := registry.ModulesVisibleTo(RoleDirector, LevelDirector)

			activeCount := 0
			for _, m := range registry.All() {
				if m.Active {
					activeCount++
				}
			}
			Expect(visible).To(HaveLen(activeCount))
		})

		It("never returns inactive modules", func() {
			visible := registry.ModulesVisibleTo(RoleDirector, LevelDirector)

			for _, m := range visible {
				Expect(m.ID).ToNot(Equal("legacy.import"))
				Expect(m.ID).ToNot(Equal("warehouse.inspections"))
			}
		})

		It("treats the hierarchy level as the authoritative gate", func() {
			// A Supervisor-named caller at level 1 must not see level-2 modules.
			visible := registry.ModulesVisibleTo(RoleSupervisor, LevelOfficer)

			for _, m := range visible {
				Expect(m.MinLevel).To(BeNumerically("<=", LevelOfficer))
			}
		})
	})
})

var _ = Describe("Case synchronization rules", func() {
	It("gives an Officer a view set of exactly its own level", func() {
		rule := CaseSynchronizationRule(LevelOfficer)

		Expect(rule.CanView).To(Equal([]int{1}))
		Expect(rule.CanAssign).To(BeEmpty())
	})

	It("gives a Director a downward-closed view of all four levels", func() {
		rule := CaseSynchronizationRule(LevelDirector)

		Expect(rule.CanView).To(Equal([]int{1, 2, 3, 4}))
	})

	It("excludes the actor's own level from every assign set", func() {
		for level := LevelOfficer; level <= LevelDirector; level++ {
			rule := CaseSynchronizationRule(level)
			Expect(rule.CanAssign).ToNot(ContainElement(level))
		}
	})

	It("lets a Director assign to levels 1 through 3", func() {
		rule := CaseSynchronizationRule(LevelDirector)

		Expect(rule.CanAssign).To(Equal([]int{1, 2, 3}))
	})

	It("keeps view sets downward-closed for the middle ranks", func() {
		Expect(CaseSynchronizationRule(LevelSupervisor).CanView).To(Equal([]int{1, 2}))
		Expect(CaseSynchronizationRule(LevelSectorChief).CanView).To(Equal([]int{1, 2, 3}))
	})

	It("denies everything for an unknown rank", func() {
		rule := CaseSynchronizationRule(9)

		Expect(rule.CanView).To(BeEmpty())
		Expect(rule.CanAssign).To(BeEmpty())
		Expect(rule.CanModify).To(BeEmpty())
	})

	It("is safe against mutation of a returned rule", func() {
		rule := CaseSynchronizationRule(LevelDirector)
		rule.CanView[0] = 99

		Expect(CaseSynchronizationRule(LevelDirector).CanView).To(Equal([]int{1, 2, 3, 4}))
	})

	It("answers level checks through the helper predicates", func() {
		Expect(CanViewLevel(LevelSupervisor, LevelOfficer)).To(BeTrue())
		Expect(CanViewLevel(LevelOfficer, LevelSupervisor)).To(BeFalse())
		Expect(CanAssignLevel(LevelDirector, LevelSectorChief)).To(BeTrue())
		Expect(CanAssignLevel(LevelDirector, LevelDirector)).To(BeFalse())
		Expect(CanModifyLevel(LevelSupervisor, LevelSupervisor)).To(BeTrue())
	})
})
