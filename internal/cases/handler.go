package cases

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
	ListCases(actor *auth.User, limit, offset int) ([]*Case, error)
	GetCase(actor *auth.User, caseID int64) (*Case, error)
	CreateCase(actor *auth.User, dto CreateCaseDTO) (*Case, error)
	AssignCase(actor *auth.User, caseID int64, dto AssignCaseDTO) (*Case, error)
	UpdateCase(actor *auth.User, caseID int64, dto UpdateCaseDTO) (*Case, error)
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

func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	result, err := h.Service.ListCases(user, limit, offset)
	if err != nil {
		h.Logger.Error("ListCases: service error", "error", err, "user_id", user.ID)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CasesResponse{Cases: result, Limit: limit, Offset: offset})
}

func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID, err := caseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid case ID")
		return
	}

	result, err := h.Service.GetCase(user, caseID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CreateCase(user, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) AssignCase(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID, err := caseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid case ID")
		return
	}

	var dto AssignCaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.AssignCase(user, caseID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	caseID, err := caseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid case ID")
		return
	}

	var dto UpdateCaseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.UpdateCase(user, caseID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func caseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}
