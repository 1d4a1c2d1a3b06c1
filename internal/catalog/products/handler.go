package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/catalog-api/internal/platform/httpx"
)

// Handler exposes product operations over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var maxPrice *decimal.Decimal
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			httpx.BadRequest(w, r, "invalid max_price")
			return
		}
		maxPrice = &parsed
	}

	result, err := h.service.List(r.Context(), maxPrice)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Products retrieved successfully", result)
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
	httpx.Respond(w, r, http.StatusOK, "Product retrieved successfully", result)
}

func (h *Handler) GetBySKU(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Product retrieved successfully", result)
}

// Search matches a name fragment. An absent or empty name parameter matches
// everything.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Error("search products failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Products retrieved successfully", result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create product failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusCreated, "Product created successfully", result)
}

// Update handles PUT but applies partial overwrite semantics: fields absent
// from the body keep their stored values. Existing callers depend on this.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, r, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	result, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update product failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Product updated successfully", result)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete product failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId")
	if !ok {
		return
	}
	categoryID, ok := h.idParam(w, r, "categoryId")
	if !ok {
		return
	}

	result, err := h.service.AddCategory(r.Context(), productID, categoryID)
	if err != nil {
		h.logger.Error("add category failed", slog.Any("error", err),
			slog.Int64("productId", productID), slog.Int64("categoryId", categoryID))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Category added to product successfully", result)
}

func (h *Handler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.idParam(w, r, "productId")
	if !ok {
		return
	}
	categoryID, ok := h.idParam(w, r, "categoryId")
	if !ok {
		return
	}

	result, err := h.service.RemoveCategory(r.Context(), productID, categoryID)
	if err != nil {
		h.logger.Error("remove category failed", slog.Any("error", err),
			slog.Int64("productId", productID), slog.Int64("categoryId", categoryID))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.Respond(w, r, http.StatusOK, "Category removed from product successfully", result)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.BadRequest(w, r, "invalid "+name)
		return 0, false
	}
	return id, true
}
