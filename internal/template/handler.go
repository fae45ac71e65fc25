package template

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/wkusuma/customs-case-management/internal"
	"github.com/wkusuma/customs-case-management/internal/auth"
	"github.com/wkusuma/customs-case-management/internal/transport"
)

type ServiceAPI interface {
	ListTemplates(category string) ([]*DocumentTemplate, error)
	GetTemplate(id int64) (*DocumentTemplate, error)
	CreateTemplate(creatorID int64, dto CreateTemplateDTO) (*DocumentTemplate, error)
	UpdateTemplate(id int64, dto UpdateTemplateDTO) (*DocumentTemplate, error)
	DeleteTemplate(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Service.ListTemplates(r.URL.Query().Get("category"))
	if err != nil {
		h.Logger.Error("ListTemplates: service error", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TemplatesResponse{Templates: templates})
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := templateIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	result, err := h.Service.GetTemplate(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CreateTemplate(user.ID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := templateIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var dto UpdateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.UpdateTemplate(id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := templateIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	if err := h.Service.DeleteTemplate(id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func templateIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
