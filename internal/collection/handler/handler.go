package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-admin-service/internal/collection"
	"github.com/fekuna/omnipos-admin-service/internal/collection/dto"
	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	collectionField = "collection"
	coverField      = "cover"
)

type CollectionHandler struct {
	uc     collection.UseCase
	re     *httpx.Responder
	logger logger.ZapLogger
}

func NewCollectionHandler(uc collection.UseCase, re *httpx.Responder, log logger.ZapLogger) *CollectionHandler {
	return &CollectionHandler{
		uc:     uc,
		re:     re,
		logger: log,
	}
}

func (h *CollectionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/collections", func(r chi.Router) {
		r.Get("/", h.listCollections)
		r.Post("/", h.createCollection)
		r.Get("/{id}", h.getCollection)
		r.Put("/{id}", h.updateCollection)
		r.Delete("/{id}", h.deleteCollection)
	})
}

func (h *CollectionHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	filters := &dto.CollectionFilters{
		SearchQuery: strings.TrimSpace(r.URL.Query().Get("q")),
		Page:        page,
		PageSize:    pageSize,
	}
	items, total, err := h.uc.ListCollections(r.Context(), filters)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, httpx.ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *CollectionHandler) getCollection(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	c, err := h.uc.GetCollection(r.Context(), id)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

// readInput accepts JSON, or multipart with the JSON in "collection" and an
// optional "cover" file.
func (h *CollectionHandler) readInput(w http.ResponseWriter, r *http.Request) (*dto.SaveCollectionInput, func(), bool) {
	input := &dto.SaveCollectionInput{}
	uploads, release, err := httpx.DecodeForm(w, r, collectionField, input)
	if err != nil {
		h.re.Error(w, r, err)
		return nil, release, false
	}
	if cover, ok := uploads[coverField]; ok {
		input.Cover = &cover
	}
	return input, release, true
}

func (h *CollectionHandler) createCollection(w http.ResponseWriter, r *http.Request) {
	input, release, ok := h.readInput(w, r)
	defer release()
	if !ok {
		return
	}
	c, err := h.uc.CreateCollection(r.Context(), input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.logger.Info("collection created", zap.String("collection_id", c.ID))
	h.re.JSON(w, http.StatusCreated, c)
}

func (h *CollectionHandler) updateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	input, release, ok := h.readInput(w, r)
	defer release()
	if !ok {
		return
	}
	input.ID = id

	c, err := h.uc.UpdateCollection(r.Context(), input)
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	h.re.JSON(w, http.StatusOK, c)
}

func (h *CollectionHandler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.re.Error(w, r, err)
		return
	}
	if err := h.uc.DeleteCollection(r.Context(), id); err != nil {
		h.re.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
