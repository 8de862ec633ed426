package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/auth"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/internal/inventory"
	"github.com/fekuna/omnipos-admin-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, re *httpx.Responder, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listStock)
		r.Get("/movements", h.listMovements)
		r.Post("/variants/{id}/adjust", h.adjustStock)
	})
}

func (h *InventoryHandler) listStock(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	q := r.URL.Query()
	threshold, _ := strconv.Atoi(q.Get("threshold"))
	lowStock := httpx.OptionalBool(r, "low_stock")

	filters := &dto.InventoryFilters{
		SearchQuery: strings.TrimSpace(q.Get("q")),
		ProductID:   q.Get("product_id"),
		LowStock:    lowStock != nil && *lowStock,
		Threshold:   threshold,
		Page:        page,
		PageSize:    pageSize,
	}
	items, total, err := h.uc.ListStock(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *InventoryHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.AdjustStockInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.VariantID = id
	input.ReferenceType = dto.ReferenceManual
	input.UserID = auth.GetUserID(r.Context())

	m, err := h.uc.AdjustStock(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, m)
}

func (h *InventoryHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	q := r.URL.Query()
	filters := &dto.MovementFilters{
		ProductID:     q.Get("product_id"),
		VariantID:     q.Get("variant_id"),
		ReferenceType: q.Get("reference_type"),
		Page:          page,
		PageSize:      pageSize,
	}
	items, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}
