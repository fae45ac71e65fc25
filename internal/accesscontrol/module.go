package accesscontrol

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Hierarchy ranks used across the access-control model. The integer order is
// what the rules operate on; role names are secondary labels.
const (
	LevelOfficer     = 1
	LevelSupervisor  = 2
	LevelSectorChief = 3
	LevelDirector    = 4
)

const (
	RoleOfficer     = "Officer"
	RoleSupervisor  = "Supervisor"
	RoleSectorChief = "SectorChief"
	RoleDirector    = "Director"
)

// ModuleDescriptor describes one unit of optional UI/feature functionality and
// its access gate.
type ModuleDescriptor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MinLevel     int      `json:"min_level"`
	AllowedRoles []string `json:"allowed_roles"`
	Active       bool     `json:"active"`
}

//go:embed modules.json
var registryData []byte

// Registry is the immutable module table, parsed once from the embedded data
// file. It is never mutated after construction.
type Registry struct {
	modules []ModuleDescriptor
}

func LoadRegistry() (*Registry, error) {
	var modules []ModuleDescriptor
	if err := json.Unmarshal(registryData, &modules); err != nil {
		return nil, fmt.Errorf("parse module registry: %w", err)
	}
	return &Registry{modules: modules}, nil
}

// All returns a copy of every descriptor, active or not.
func (r *Registry) All() []ModuleDescriptor {
	out := make([]ModuleDescriptor, len(r.modules))
	copy(out, r.modules)
	return out
}

func (r *Registry) Len() int {
	return len(r.modules)
}
