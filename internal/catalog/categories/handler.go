package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/catalog-api/internal/platform/httpx"
	"github.com/noah-isme/catalog-api/internal/shared"
)

// Handler exposes category operations over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list categories failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Categories retrieved successfully", result)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Category retrieved successfully", result)
}

func (h *Handler) GetByName(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Category retrieved successfully", result)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Error("search categories failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Categories retrieved successfully", result)
}

func (h *Handler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId")
	if !ok {
		return
	}
	result, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Categories retrieved successfully", result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "invalid request body")
		return
	}
	if err := shared.Validate(req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create category failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusCreated, "Category created successfully", result)
}

// Update handles PUT but applies partial overwrite semantics: fields absent
// from the body keep their stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "invalid request body")
		return
	}
	if err := shared.Validate(req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	result, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update category failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Category updated successfully", result)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete category failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.BadRequest(w, r, "invalid "+name)
		return 0, false
	}
	return id, true
}
