package accesscontrol

import (
	"net/http"

	"github.com/wkusuma/customs-case-management/internal/auth"
	"github.com/wkusuma/customs-case-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	registry *Registry
}

func NewHandler(baseHandler *transport.BaseHandler, registry *Registry) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		registry:    registry,
	}
}

type ModulesResponse struct {
	Modules      []ModuleDescriptor `json:"modules"`
	CaseSyncRule CaseSyncRule       `json:"case_sync_rule"`
}

// ListModules handles GET /modules: the modules the caller's rank and role
// unlock, plus the case synchronization rule for the caller's level.
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, ModulesResponse{
		Modules:      h.registry.ModulesVisibleTo(user.Role, user.HierarchyLevel),
		CaseSyncRule: CaseSynchronizationRule(user.HierarchyLevel),
	})
}
