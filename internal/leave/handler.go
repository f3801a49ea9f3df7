package leave

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Apply(ident auth.Identity, dto ApplyDTO) (*Leave, error)
	ListMine(ident auth.Identity) ([]*Leave, error)
	ListPending(ident auth.Identity) ([]*Leave, error)
	Decide(ident auth.Identity, leaveID int64, dto DecideDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ApplyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Apply: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.Service.Apply(*ident, dto)
	if err != nil {
		h.Logger.Error("Apply: service error", "error", err, "user_id", ident.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ApplyResponse{
		OK: true,
		ID: strconv.FormatInt(l.ID, 10),
	})
}

func (h *Handler) MyLeaves(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.ListMine(*ident)
	if err != nil {
		h.Logger.Error("MyLeaves: service error", "error", err, "user_id", ident.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, leaves)
}

func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaves, err := h.Service.ListPending(*ident)
	if err != nil {
		h.Logger.Error("Pending: service error", "error", err, "user_id", ident.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, leaves)
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaveIDStr := chi.URLParam(r, "id")
	leaveID, err := strconv.ParseInt(leaveIDStr, 10, 64)
	if err != nil {
		// An id that cannot resolve to a leave is reported the same way
		// as one that does not exist.
		h.Logger.Warn("Decide: unresolvable leave id", "id", leaveIDStr)
		h.HandleServiceError(w, internal.ErrLeaveNotFound)
		return
	}

	var dto DecideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Decide: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Decide(*ident, leaveID, dto); err != nil {
		h.Logger.Error("Decide: service error", "error", err, "leave_id", leaveID, "user_id", ident.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
