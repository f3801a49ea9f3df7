package auth

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) error
	Login(dto LoginDTO) (*LoginResult, error)
	Authenticate(token string) (*Identity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Register(dto); err != nil {
		h.Logger.Error("Register: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Error("Login: authentication failed", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// CurrentUser handles GET /users/me from the authenticated identity.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, ident)
}

// AuthMiddleware resolves the X-Token header to an identity before any
// handler logic runs. Absent or unknown tokens never reach a handler.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)

		ident, err := h.Service.Authenticate(token)
		if err != nil {
			h.Logger.Warn("auth middleware: authentication failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithIdentity(r.Context(), ident)
		ctx = logger.With(ctx, "user_id", ident.ID, "role", ident.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"
