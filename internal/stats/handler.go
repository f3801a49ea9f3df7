package stats

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Overview(ident auth.Identity) (*Overview, error)
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

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || ident == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overview, err := h.Service.Overview(*ident)
	if err != nil {
		h.Logger.Error("Overview: service error", "error", err, "user_id", ident.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, overview)
}
