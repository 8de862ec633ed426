package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/order"
	"github.com/fekuna/omnipos-admin-service/internal/order/dto"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	uc     order.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, re *httpx.Responder, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Patch("/{id}/status", h.updateStatus)
		r.Patch("/{id}/payment-status", h.updatePaymentStatus)
		r.Delete("/{id}", h.deleteOrder)
	})
}

// dateParam parses a YYYY-MM-DD query value; bad input is ignored.
func dateParam(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	q := r.URL.Query()
	filters := &dto.OrderFilters{
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment_status"),
		CustomerID:    q.Get("customer_id"),
		SearchQuery:   strings.TrimSpace(q.Get("q")),
		From:          dateParam(r, "from"),
		Page:          page,
		PageSize:      pageSize,
	}
	// "to" is inclusive of the whole day.
	if to := dateParam(r, "to"); to != nil {
		end := to.AddDate(0, 0, 1)
		filters.To = &end
	}

	orders, total, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: orders, Total: total, Page: page, PageSize: pageSize})
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, h.uc.UpdateStatus)
}

func (h *OrderHandler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, h.uc.UpdatePaymentStatus)
}

func (h *OrderHandler) patch(w http.ResponseWriter, r *http.Request, apply func(context.Context, *dto.UpdateStatusInput) (*model.Order, error)) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.UpdateStatusInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.ID = id

	o, err := apply(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteOrder(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
