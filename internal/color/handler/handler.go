package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-admin-service/internal/color"
	"github.com/fekuna/omnipos-admin-service/internal/color/dto"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ColorHandler struct {
	uc     color.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewColorHandler(uc color.UseCase, re *httpx.Responder, log logger.ZapLogger) *ColorHandler {
	return &ColorHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *ColorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/colors", func(r chi.Router) {
		r.Get("/", h.listColors)
		r.Post("/", h.createColor)
		r.Put("/{id}", h.updateColor)
		r.Delete("/{id}", h.deleteColor)
	})
}

func (h *ColorHandler) listColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.uc.ListColors(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: colors, Total: len(colors), Page: 1, PageSize: len(colors)})
}

func (h *ColorHandler) createColor(w http.ResponseWriter, r *http.Request) {
	var input dto.SaveColorInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.CreateColor(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.logger.Info("color created", zap.String("color_id", c.ID), zap.String("hex", c.HexCode))
	h.re.JSON(w, http.StatusCreated, c)
}

func (h *ColorHandler) updateColor(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	var input dto.SaveColorInput
	if err := httpx.Decode(r, &input); err != nil {
		h.re.Error(w, r, err)
		return
	}
	input.ID = id

	c, err := h.uc.UpdateColor(r.Context(), &input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *ColorHandler) deleteColor(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteColor(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
