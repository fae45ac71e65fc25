package accesscontrol

// ModulesVisibleTo filters the registry for one role and hierarchy level.
//
// A module is visible when it is active, the caller's level reaches the
// module's minimum level, and, if the module lists allowed roles, the caller's
// role is among them. The hierarchy level is the authoritative gate; the role
// list is a secondary filter.
func (r *Registry) ModulesVisibleTo(role string, hierarchyLevel int) []ModuleDescriptor {
	var visible []ModuleDescriptor
	for _, m := range r.modules {
		if !m.Active {
			continue
		}
		if m.MinLevel > 0 && hierarchyLevel < m.MinLevel {
			continue
		}
		if len(m.AllowedRoles) > 0 && !containsRole(m.AllowedRoles, role) {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
