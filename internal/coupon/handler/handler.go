package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/coupon"
	"github.com/fekuna/omnipos-admin-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CouponHandler struct {
	uc     coupon.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewCouponHandler(uc coupon.UseCase, re *httpx.Responder, log logger.ZapLogger) *CouponHandler {
	return &CouponHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *CouponHandler) RegisterRoutes(r chi.Router) {
	r.Route("/coupons", func(r chi.Router) {
		r.Get("/", h.listCoupons)
		r.Post("/", h.createCoupon)
		r.Get("/{id}", h.getCoupon)
		r.Put("/{id}", h.updateCoupon)
		r.Post("/{id}/toggle", h.toggleCoupon)
		r.Delete("/{id}", h.deleteCoupon)
	})
}

func (h *CouponHandler) listCoupons(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	filters := &dto.CouponFilters{
		SearchQuery: strings.TrimSpace(r.URL.Query().Get("q")),
		IsActive:    httpx.OptionalBool(r, "is_active"),
		Page:        page,
		PageSize:    pageSize,
	}
	items, total, err := h.uc.ListCoupons(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *CouponHandler) getCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.GetCoupon(r.Context(), id)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CouponHandler) createCoupon(w http.ResponseWriter, r *http.Request) {
	var input dto.SaveCouponInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.CreateCoupon(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusCreated, c)
}

func (h *CouponHandler) updateCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.SaveCouponInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.ID = id

	c, err := h.uc.UpdateCoupon(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CouponHandler) toggleCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.ToggleCouponInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.ID = id

	c, err := h.uc.ToggleCoupon(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.logger.Info("coupon toggled", zap.String("coupon_id", c.ID), zap.Bool("active", c.IsActive))
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CouponHandler) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteCoupon(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
