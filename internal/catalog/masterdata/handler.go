package masterdata

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/catalog-api/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/masterdata", func(r chi.Router) {
		r.Get("/{table}", h.ListTable)
	})
}

func (h *Handler) ListTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	rows, err := h.service.ListTable(r.Context(), table)
	if err != nil {
		h.logger.Error("masterdata query failed", slog.Any("error", err), slog.String("table", table))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Rows retrieved successfully", rows)
}
