// Package httpx holds the JSON response and error helpers shared by all
// HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/pkg/i18n"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Responder struct {
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewResponder(tr *i18n.Translator, log logger.ZapLogger) *Responder {
	return &Responder{tr: tr, logger: log}
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ListResponse is the envelope every paginated endpoint returns.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func (re *Responder) JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// Error writes err as a localized JSON error. Unclassified errors are
// logged and reported as 500 without leaking their text.
func (re *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	code := "internal.error"
	var data map[string]interface{}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		code = appErr.MessageID
		data = appErr.Data
	}

	if status >= http.StatusInternalServerError {
		re.logger.Error("request error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	re.JSON(w, status, errorEnvelope{Error: ErrorBody{
		Code:    code,
		Message: re.tr.Translate(r.Header.Get("Accept-Language"), code, data),
	}})
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		if errors.Is(err, apperr.ErrInvalidBody) {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUpload):
		return http.StatusBadGateway
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Decode(r *http.Request, dst interface{}) error {
	return DecodeJSON(r.Body, dst)
}

// DecodeJSON strictly decodes one JSON value from rd.
func DecodeJSON(rd io.Reader, dst interface{}) error {
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalidBody(err)
	}
	return nil
}

// IDParam returns the named URL parameter after checking it is a UUID.
func IDParam(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.ErrInvalidID
	}
	return id, nil
}

// Page reads page/page_size query params, clamping them to sane bounds.
func Page(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// OptionalBool parses a tri-state query flag: absent means nil.
func OptionalBool(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
