package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/customer"
	"github.com/fekuna/omnipos-admin-service/internal/customer/dto"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	uc     customer.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, re *httpx.Responder, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
	})
}

func (h *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	q := r.URL.Query()
	filters := &dto.CustomerFilters{
		SearchQuery: strings.TrimSpace(q.Get("q")),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		Page:        page,
		PageSize:    pageSize,
	}
	items, total, err := h.uc.ListCustomers(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *CustomerHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.GetCustomer(r.Context(), id)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var input dto.SaveCustomerInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.CreateCustomer(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.logger.Info("customer created", zap.String("customer_id", c.ID))
	h.re.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.SaveCustomerInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.ID = id

	c, err := h.uc.UpdateCustomer(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteCustomer(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
