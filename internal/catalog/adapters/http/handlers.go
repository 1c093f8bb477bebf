package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/veloura/storefront/internal/catalog/app"
	"github.com/veloura/storefront/internal/catalog/domain"
	"github.com/veloura/storefront/internal/catalog/ports"
)

// Stable error codes exposed to catalog clients.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Handler exposes HTTP endpoints for catalog browsing and admin writes.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register binds the catalog handlers to the provided router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/products", h.listProducts)
	r.Get("/v1/products/{slug}", h.getProduct)
	r.Get("/v1/collections", h.listCollections)
	r.Get("/v1/collections/{slug}", h.getCollection)
	r.Post("/v1/admin/products", h.createProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := ports.ProductFilter{
		CollectionSlug: r.URL.Query().Get("collection"),
		Search:         r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		if featured, err := strconv.ParseBool(v); err == nil {
			filter.Featured = &featured
		}
	}
	if v := r.URL.Query().Get("new"); v != "" {
		if isNew, err := strconv.ParseBool(v); err == nil {
			filter.New = &isNew
		}
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListCollections(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if collections == nil {
		collections = []domain.Collection{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collection": collection})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload app.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationError, "invalid JSON payload", "")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), payload)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"product": product})
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, CodeValidationError, "invalid product payload", validation.Error())
	case errors.Is(err, ports.ErrProductNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "product not found", "")
	case errors.Is(err, ports.ErrCollectionNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "collection not found", "")
	case errors.Is(err, ports.ErrSlugTaken):
		writeError(w, http.StatusConflict, CodeConflict, "slug already in use", "")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal server error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code, Details: details})
}
