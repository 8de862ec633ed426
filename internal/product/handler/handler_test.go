package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-admin-service/internal/httpx"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
	"github.com/fekuna/omnipos-admin-service/internal/product/matrix"
	"github.com/fekuna/omnipos-admin-service/pkg/i18n"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	saved   *dto.SaveProductInput
	bodies  map[string]string
	saveErr error
	filters *dto.ProductFilters
}

func (f *fakeUseCase) SaveProduct(_ context.Context, input *dto.SaveProductInput) (*model.Product, error) {
	f.saved = input
	f.bodies = map[string]string{}
	for ref, obj := range input.Uploads {
		b, _ := io.ReadAll(obj.Body)
		f.bodies[ref] = string(b)
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	id := input.ID
	if id == "" {
		id = "new-id"
	}
	return &model.Product{BaseModel: model.BaseModel{ID: id}, Name: input.Name, Version: input.Version + 1}, nil
}

func (f *fakeUseCase) GetProduct(_ context.Context, id string) (*model.Product, error) {
	if id != "7f1c1f0e-8d4c-4f53-9b0a-3c2f6d8e9a10" {
		return nil, product.ErrNotFound
	}
	red := "c-red"
	return &model.Product{
		BaseModel: model.BaseModel{ID: id},
		Name:      "Tee",
		Variants:  []model.ProductVariant{{ColorID: &red, Size: "M", IsPrimary: true}},
	}, nil
}

func (f *fakeUseCase) ListProducts(_ context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	f.filters = filters
	return []model.Product{{Name: "Tee"}}, 41, nil
}

func (f *fakeUseCase) DeleteProduct(context.Context, string) error { return nil }

func (f *fakeUseCase) PreviewColors(input *dto.PreviewColorsInput) matrix.Draft {
	return matrix.ApplyColorChange(input.Draft, input.Colors, matrix.SKUFunc(func(_, _, _ string) string { return "SKU" }))
}

func (f *fakeUseCase) PreviewSizes(input *dto.PreviewSizesInput) matrix.Draft {
	return matrix.ApplySizeChange(input.Draft, input.Sizes, matrix.SKUFunc(func(_, _, _ string) string { return "SKU" }))
}

func (f *fakeUseCase) PreviewPrimary(input *dto.PreviewPrimaryInput) (matrix.Draft, error) {
	return matrix.SetPrimary(input.Draft, input.ColorID)
}

func newRouter(t *testing.T, uc product.UseCase) http.Handler {
	t.Helper()
	tr, err := i18n.New("en", "id")
	require.NoError(t, err)
	h := NewProductHandler(uc, httpx.NewResponder(tr, logger.NewNop()), logger.NewNop())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestCreateProduct_JSON(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"name":"Tee","price":100,"draft":{"colors":[],"sizes":[],"variants":[]}}`

	req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.saved)
	assert.Equal(t, "", uc.saved.ID)
	assert.Equal(t, "Tee", uc.saved.Name)
}

func TestUpdateProduct_Multipart(t *testing.T) {
	uc := &fakeUseCase{}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("product", `{"name":"Tee","version":2,"draft":{"colors":[{"id":"c-red","name":"Red"}],"sizes":["M"],
		"variants":[{"color_id":"c-red","size":"M","sku":"X","stock":1,"images":[],"pending_images":["front"],"is_primary":true}]}}`))
	fw, err := mw.CreateFormFile("front", "front.jpg")
	require.NoError(t, err)
	fw.Write([]byte("jpeg-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/products/7f1c1f0e-8d4c-4f53-9b0a-3c2f6d8e9a10", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "7f1c1f0e-8d4c-4f53-9b0a-3c2f6d8e9a10", uc.saved.ID)
	assert.Equal(t, 2, uc.saved.Version)
	require.Contains(t, uc.saved.Uploads, "front")
	assert.Equal(t, "front.jpg", uc.saved.Uploads["front"].Filename)
	assert.Equal(t, "jpeg-bytes", uc.bodies["front"])
	assert.Equal(t, []string{"front"}, uc.saved.Draft.Variants[0].PendingImages)
}

func TestSaveProduct_ErrorsAreLocalized(t *testing.T) {
	uc := &fakeUseCase{saveErr: matrix.ErrNoVariants}

	req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(`{"name":"Tee"}`))
	req.Header.Set("Accept-Language", "id")
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error httpx.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "matrix.no_variants", body.Error.Code)
	assert.Contains(t, body.Error.Message, "ukuran")
}

func TestSaveProduct_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	newRouter(t, &fakeUseCase{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	router := newRouter(t, &fakeUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/7f1c1f0e-8d4c-4f53-9b0a-3c2f6d8e9a10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Tee", resp.Product.Name)
	assert.Equal(t, []string{"M"}, resp.Draft.Sizes)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/0b9a2f33-5a5e-4c57-8f43-1d1f7b3c2e44", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListProducts_Filters(t *testing.T) {
	uc := &fakeUseCase{}
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/?q=+linen+&status=active&page=3&page_size=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "linen", uc.filters.SearchQuery)
	assert.Equal(t, "active", uc.filters.Status)
	assert.Equal(t, 3, uc.filters.Page)
	assert.Equal(t, 100, uc.filters.PageSize)

	var resp httpx.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 41, resp.Total)
}

func TestPreviewEndpoints(t *testing.T) {
	router := newRouter(t, &fakeUseCase{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/draft/sizes",
		strings.NewReader(`{"draft":{"colors":[{"id":"c-red","name":"Red"}]},"sizes":["S","M"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var d matrix.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Len(t, d.Variants, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/draft/primary",
		strings.NewReader(`{"draft":{},"color_id":"c-blue"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
