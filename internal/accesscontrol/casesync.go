package accesscontrol

// CaseSyncRule lists the hierarchy levels an actor of a given rank may view,
// assign and modify.
type CaseSyncRule struct {
	CanView   []int `json:"can_view"`
	CanAssign []int `json:"can_assign"`
	CanModify []int `json:"can_modify"`
}

// caseSyncRules is a closed, hand-authored table keyed by hierarchy rank.
// View sets are downward-closed; assign sets always exclude the actor's own
// level. Do not derive these algorithmically.
var caseSyncRules = map[int]CaseSyncRule{
	LevelOfficer: {
		CanView:   []int{1},
		CanAssign: []int{},
		CanModify: []int{1},
	},
	LevelSupervisor: {
		CanView:   []int{1, 2},
		CanAssign: []int{1},
		CanModify: []int{1, 2},
	},
	LevelSectorChief: {
		CanView:   []int{1, 2, 3},
		CanAssign: []int{1, 2},
		CanModify: []int{1, 2, 3},
	},
	LevelDirector: {
		CanView:   []int{1, 2, 3, 4},
		CanAssign: []int{1, 2, 3},
		CanModify: []int{1, 2, 3, 4},
	},
}

// CaseSynchronizationRule returns the rule for a hierarchy rank. Unknown ranks
// get an empty rule, which denies everything.
func CaseSynchronizationRule(hierarchyLevel int) CaseSyncRule {
	rule, ok := caseSyncRules[hierarchyLevel]
	if !ok {
		return CaseSyncRule{CanView: []int{}, CanAssign: []int{}, CanModify: []int{}}
	}
	return CaseSyncRule{
		CanView:   append([]int(nil), rule.CanView...),
		CanAssign: append([]int(nil), rule.CanAssign...),
		CanModify: append([]int(nil), rule.CanModify...),
	}
}

// CanViewLevel reports whether an actor at actorLevel may view cases at
// caseLevel.
func CanViewLevel(actorLevel, caseLevel int) bool {
	return containsLevel(CaseSynchronizationRule(actorLevel).CanView, caseLevel)
}

// CanAssignLevel reports whether an actor at actorLevel may assign cases at
// caseLevel.
func CanAssignLevel(actorLevel, caseLevel int) bool {
	return containsLevel(CaseSynchronizationRule(actorLevel).CanAssign, caseLevel)
}

// CanModifyLevel reports whether an actor at actorLevel may modify cases at
// caseLevel.
func CanModifyLevel(actorLevel, caseLevel int) bool {
	return containsLevel(CaseSynchronizationRule(actorLevel).CanModify, caseLevel)
}

func containsLevel(levels []int, level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
