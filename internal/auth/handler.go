package auth

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/wkusuma/customs-case-management/internal/transport"
	"github.com/wkusuma/customs-case-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// loginResponse is the wire shape of the login endpoint.
type loginResponse struct {
	Success   bool   `json:"success"`
	User      *User  `json:"user,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Message   string `json:"message"`
}

// Login handles the full method dispatch for /auth/login: OPTIONS preflight
// returns 200 with an empty body, anything but POST gets 405, and every
// response carries permissive CORS headers.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.WriteJSON(w, http.StatusMethodNotAllowed, loginResponse{
			Success: false,
			Message: "method not allowed",
		})
		return
	}

	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteJSON(w, http.StatusBadRequest, loginResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	result, err := h.Service.Authenticate(dto, clientAddress(r))
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err, "source", clientAddress(r))

		switch err {
		case ErrInvalidCredentials, ErrAccountDeactivated, ErrAccountLocked:
			h.WriteJSON(w, http.StatusUnauthorized, loginResponse{
				Success: false,
				Message: err.Error(),
			})
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteJSON(w, http.StatusBadRequest, loginResponse{
					Success: false,
					Message: err.Error(),
				})
			} else {
				// Internal failures are logged with full detail above and
				// surfaced generically.
				h.Logger.Error("authentication error", "error", err)
				h.WriteJSON(w, http.StatusInternalServerError, loginResponse{
					Success: false,
					Message: "internal server error",
				})
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		Message:   "login successful",
	})
}

// AuthMiddleware validates the bearer token and loads the user with effective
// permissions into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := h.Service.GetUserWithPermissions(claims.UserID)
		if err != nil {
			h.Logger.Error("failed to load user permissions", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// clientAddress extracts a best-effort source IP; "unknown" when nothing
// usable is present.
func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if addr := strings.TrimSpace(parts[0]); addr != "" {
			return addr
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
