package admin

import (
	"net/http"

	"github.com/wkusuma/customs-case-management/internal/transport"
)

type BootstrapperAPI interface {
	Run() (*BootstrapResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Bootstrapper BootstrapperAPI
}

func NewHandler(baseHandler *transport.BaseHandler, bootstrapper BootstrapperAPI) *Handler {
	return &Handler{
		BaseHandler:  baseHandler,
		Bootstrapper: bootstrapper,
	}
}

// InitDatabase handles POST /admin/db-init. The endpoint exists so a fresh
// deployment can be brought up without shell access; repeated calls are
// no-ops and report zero created rows.
func (h *Handler) InitDatabase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := h.Bootstrapper.Run()
	if err != nil {
		h.Logger.Error("database bootstrap failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "database initialization failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}
