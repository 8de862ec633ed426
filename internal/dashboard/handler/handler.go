package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-admin-service/internal/dashboard"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, re *httpx.Responder, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.getSummary)
}

func (h *DashboardHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSummary(r.Context())
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, s)
}
