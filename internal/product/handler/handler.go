package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
	"github.com/fekuna/omnipos-admin-service/internal/product/matrix"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// productField is the multipart field carrying the JSON body; file fields
// are uploads keyed by their pending ref.
const productField = "product"

type ProductHandler struct {
	uc     product.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, re *httpx.Responder, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

type productResponse struct {
	Product *model.Product `json:"product"`
	Draft   matrix.Draft   `json:"draft"`
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)

		r.Post("/draft/colors", h.previewColors)
		r.Post("/draft/sizes", h.previewSizes)
		r.Post("/draft/primary", h.previewPrimary)
	})
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		CollectionID: q.Get("collection_id"),
		Status:       q.Get("status"),
		SearchQuery:  strings.TrimSpace(q.Get("q")),
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
		Page:         page,
		PageSize:     pageSize,
	}

	products, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: products, Total: total, Page: page, PageSize: pageSize})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, productResponse{Product: p, Draft: matrix.FromProduct(p)})
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "", http.StatusCreated)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.saveProduct(w, r, id, http.StatusOK)
}

func (h *ProductHandler) saveProduct(w http.ResponseWriter, r *http.Request, id string, status int) {
	input := &dto.SaveProductInput{}
	uploads, release, err := httpx.DecodeForm(w, r, productField, input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	defer release()
	input.ID = id
	input.Uploads = uploads

	p, err := h.uc.SaveProduct(r.Context(), input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.logger.Info("product saved",
		zap.String("product_id", p.ID),
		zap.Int("variants", len(p.Variants)),
		zap.Int("uploads", len(uploads)),
	)
	h.re.JSON(w, status, productResponse{Product: p, Draft: matrix.FromProduct(p)})
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) previewColors(w http.ResponseWriter, r *http.Request) {
	var input dto.PreviewColorsInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, h.uc.PreviewColors(&input))
}

func (h *ProductHandler) previewSizes(w http.ResponseWriter, r *http.Request) {
	var input dto.PreviewSizesInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, h.uc.PreviewSizes(&input))
}

func (h *ProductHandler) previewPrimary(w http.ResponseWriter, r *http.Request) {
	var input dto.PreviewPrimaryInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	d, err := h.uc.PreviewPrimary(&input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, d)
}
