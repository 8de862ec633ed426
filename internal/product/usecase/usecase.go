package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-service/internal/apperr"
	"github.com/fekuna/omnipos-admin-service/internal/model"
	"github.com/fekuna/omnipos-admin-service/internal/product"
	"github.com/fekuna/omnipos-admin-service/internal/product/dto"
	"github.com/fekuna/omnipos-admin-service/internal/product/matrix"
	"github.com/fekuna/omnipos-admin-service/internal/validate"
	"github.com/fekuna/omnipos-admin-service/pkg/broker"
	"github.com/fekuna/omnipos-admin-service/pkg/cache"
	"github.com/fekuna/omnipos-admin-service/pkg/logger"
	"github.com/fekuna/omnipos-admin-service/pkg/search"
	"github.com/fekuna/omnipos-admin-service/pkg/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	indexName     = "products"
	listCacheTTL  = 5 * time.Minute
	skuAttempts   = 5
	uploadFolder  = "products"
	cleanupWindow = 30 * time.Second

	EventProductSaved   = "ProductSaved"
	EventProductDeleted = "ProductDeleted"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"status": { "type": "keyword" },
			"collection_id": { "type": "keyword" },
			"price": { "type": "double" },
			"stock": { "type": "integer" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo      product.Repository
	cache     cache.Store
	es        search.Indexer
	storage   storage.Uploader
	publisher broker.Publisher
	skus      matrix.SKUGenerator
	logger    logger.ZapLogger
}

// NewProductUseCase wires the catalog. cache and es may be nil.
func NewProductUseCase(
	repo product.Repository,
	cache cache.Store,
	es search.Indexer,
	uploader storage.Uploader,
	publisher broker.Publisher,
	skus matrix.SKUGenerator,
	log logger.ZapLogger,
) product.UseCase {
	if skus == nil {
		skus = matrix.RandomSKU{}
	}
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &productUseCase{
		repo:      repo,
		cache:     cache,
		es:        es,
		storage:   uploader,
		publisher: publisher,
		skus:      skus,
		logger:    log,
	}
}

type productEvent struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	SKU       *string `json:"sku,omitempty"`
	Status    string  `json:"status,omitempty"`
	Stock     int     `json:"stock"`
	Version   int     `json:"version,omitempty"`
}

func (uc *productUseCase) SaveProduct(ctx context.Context, input *dto.SaveProductInput) (*model.Product, error) {
	// 1. Validate everything before touching the network.
	if err := validateProduct(input); err != nil {
		return nil, err
	}
	draft, err := matrix.Finalize(input.Draft)
	if err != nil {
		return nil, err
	}
	refs, err := pendingRefs(draft, input.Uploads)
	if err != nil {
		return nil, err
	}

	var existing *model.Product
	if input.ID != "" {
		existing, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, product.ErrNotFound
		}
		if existing.Version != input.Version {
			return nil, apperr.ErrVersionConflict
		}
	}
	// Ids that do not belong to this product, or appear twice, become new rows.
	known := knownVariants(existing)
	claimed := map[string]bool{}
	for i := range draft.Variants {
		id := draft.Variants[i].ID
		if _, ok := known[id]; !ok || claimed[id] {
			draft.Variants[i].ID = ""
			continue
		}
		claimed[id] = true
	}

	// 2. SKUs, so a conflict does not cost an upload round. Generated SKUs
	// carry the product SKU when the draft names no prefix of its own.
	if strings.TrimSpace(draft.SKUPrefix) == "" {
		draft.SKUPrefix = input.SKU
	}
	if err := uc.assignSKUs(ctx, input.ID, &draft); err != nil {
		return nil, err
	}

	// 3. Uploads. A failure leaves the catalog untouched.
	resolved, uploaded, err := uc.uploadPending(ctx, refs, input.Uploads)
	if err != nil {
		return nil, err
	}

	p := buildProduct(input, draft, resolved, existing)

	// 4. One transaction for the product and its variants.
	if existing == nil {
		err = uc.repo.Create(ctx, p)
	} else {
		err = uc.repo.Update(ctx, p)
	}
	if err != nil {
		uc.removeObjects(uploaded)
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)
	go uc.publish(context.Background(), EventProductSaved, p)

	return p, nil
}

var productMessages = validate.Messages{
	"name":           product.ErrNameRequired,
	"price":          product.ErrPriceNegative,
	"discount_price": product.ErrDiscountInvalid,
	"status":         product.ErrStatusInvalid,
	"stock":          matrix.ErrNegativeStock,
}

func validateProduct(input *dto.SaveProductInput) error {
	in := *input
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(&in, productMessages); err != nil {
		return err
	}
	if dp := in.DiscountPrice; dp != nil && *dp >= in.Price {
		return product.ErrDiscountInvalid
	}
	return nil
}

// pendingRefs lists every distinct upload reference in variant order.
func pendingRefs(d matrix.Draft, uploads map[string]storage.Object) ([]string, error) {
	var refs []string
	seen := map[string]bool{}
	for _, v := range d.Variants {
		for _, ref := range v.PendingImages {
			if seen[ref] {
				continue
			}
			if _, ok := uploads[ref]; !ok {
				return nil, product.ErrPendingImageMissing.With("Ref", ref)
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func knownVariants(p *model.Product) map[string]model.ProductVariant {
	known := map[string]model.ProductVariant{}
	if p == nil {
		return known
	}
	for _, v := range p.Variants {
		known[v.ID] = v
	}
	return known
}

// assignSKUs fills blank SKUs and resolves collisions. New variants get a
// fresh SKU on collision; a stored variant keeping a colliding SKU is a
// conflict the admin has to fix.
func (uc *productUseCase) assignSKUs(ctx context.Context, productID string, d *matrix.Draft) error {
	names := make(map[string]string, len(d.Colors))
	for _, c := range d.Colors {
		names[c.ID] = c.Name
	}

	for attempt := 1; ; attempt++ {
		skus := make([]string, 0, len(d.Variants))
		for i := range d.Variants {
			v := &d.Variants[i]
			v.SKU = strings.TrimSpace(v.SKU)
			if v.SKU == "" {
				v.SKU = uc.skus.NewSKU(d.SKUPrefix, names[v.ColorID], v.Size)
			}
			skus = append(skus, v.SKU)
		}

		taken, err := uc.repo.TakenSKUs(ctx, skus, productID)
		if err != nil {
			return err
		}

		retry := false
		seen := make(map[string]bool, len(skus))
		for i := range d.Variants {
			v := &d.Variants[i]
			if !taken[v.SKU] && !seen[v.SKU] {
				seen[v.SKU] = true
				continue
			}
			if v.ID != "" || attempt == skuAttempts {
				return product.ErrSKUTaken.With("SKU", v.SKU)
			}
			v.SKU = ""
			retry = true
		}
		if !retry {
			return nil
		}
	}
}

// uploadPending stores every referenced file concurrently. On failure the
// objects that did make it are removed again.
func (uc *productUseCase) uploadPending(ctx context.Context, refs []string, uploads map[string]storage.Object) (map[string]string, []string, error) {
	if len(refs) == 0 {
		return nil, nil, nil
	}

	urls := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		obj := uploads[ref]
		obj.Folder = uploadFolder
		g.Go(func() error {
			url, err := uc.storage.Upload(gctx, obj)
			if err != nil {
				return fmt.Errorf("upload %s: %w", ref, err)
			}
			urls[i] = url
			return nil
		})
	}
	err := g.Wait()

	uploaded := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			uploaded = append(uploaded, url)
		}
	}
	if err != nil {
		uc.removeObjects(uploaded)
		return nil, nil, apperr.Upload(err)
	}

	resolved := make(map[string]string, len(refs))
	for i, ref := range refs {
		resolved[ref] = urls[i]
	}
	return resolved, uploaded, nil
}

func (uc *productUseCase) removeObjects(urls []string) {
	if len(urls) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cleanupWindow)
	defer cancel()
	for _, url := range urls {
		if err := uc.storage.Remove(ctx, url); err != nil {
			uc.logger.Warn("failed to remove orphaned image", zap.String("url", url), zap.Error(err))
		}
	}
}

func buildProduct(input *dto.SaveProductInput, d matrix.Draft, resolved map[string]string, existing *model.Product) *model.Product {
	now := time.Now()
	status := input.Status
	if status == "" {
		status = model.ProductStatusActive
	}

	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:          strings.TrimSpace(input.Name),
		SKU:           optional(input.SKU),
		Description:   optional(input.Description),
		Fabrics:       optional(input.Fabrics),
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Status:        status,
		Stock:         matrix.TotalStock(d.Variants),
		CollectionID:  optional(input.CollectionID),
		Version:       input.Version,
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}

	known := knownVariants(existing)
	colors := make(map[string]matrix.ColorRef, len(d.Colors))
	for _, c := range d.Colors {
		colors[c.ID] = c
	}

	p.Variants = make([]model.ProductVariant, 0, len(d.Variants))
	for _, v := range d.Variants {
		id, createdAt := v.ID, now
		if prev, ok := known[v.ID]; ok {
			createdAt = prev.CreatedAt
		} else {
			id = uuid.New().String()
		}

		images := append(pq.StringArray{}, v.Images...)
		for _, ref := range v.PendingImages {
			images = append(images, resolved[ref])
		}

		colorID := v.ColorID
		pv := model.ProductVariant{
			BaseModel: model.BaseModel{ID: id, CreatedAt: createdAt, UpdatedAt: now},
			ProductID: p.ID,
			ColorID:   &colorID,
			Size:      v.Size,
			SKU:       optional(v.SKU),
			Price:     v.Price,
			Stock:     v.Stock,
			Images:    images,
			IsPrimary: v.IsPrimary,
		}
		if c, ok := colors[colorID]; ok && c.Name != "" {
			name := c.Name
			pv.ColorName = &name
		}
		if pv.IsPrimary && len(images) > 0 {
			thumb := images[0]
			p.Thumbnail = &thumb
		}
		p.Variants = append(p.Variants, pv)
	}
	return p
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		var cached dto.ProductList
		if err := uc.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached.Products, cached.Count, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, dto.ProductList{Products: products, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  filters.SearchQuery,
				"type":   "bool_prefix",
				"fields": []string{"name^3", "sku", "description"},
			},
		},
	}
	var filter []map[string]interface{}
	if filters.Status != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"status": filters.Status}})
	}
	if filters.CollectionID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"collection_id": filters.CollectionID}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
	if filters.PageSize > 0 {
		q["from"] = (filters.Page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping malformed search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, "products:list:*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	doc := *p
	doc.Variants = nil
	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) publish(ctx context.Context, eventType string, p *model.Product) {
	evt := productEvent{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Status:    p.Status,
		Stock:     p.Stock,
		Version:   p.Version,
	}
	if err := uc.publisher.Publish(ctx, p.ID, eventType, evt); err != nil {
		uc.logger.Error("failed to publish product event",
			zap.String("event", eventType),
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
	}
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	go uc.publish(context.Background(), EventProductDeleted, &model.Product{BaseModel: model.BaseModel{ID: id}})
	return nil
}

func (uc *productUseCase) PreviewColors(input *dto.PreviewColorsInput) matrix.Draft {
	return matrix.ApplyColorChange(input.Draft, input.Colors, uc.skus)
}

func (uc *productUseCase) PreviewSizes(input *dto.PreviewSizesInput) matrix.Draft {
	return matrix.ApplySizeChange(input.Draft, input.Sizes, uc.skus)
}

func (uc *productUseCase) PreviewPrimary(input *dto.PreviewPrimaryInput) (matrix.Draft, error) {
	return matrix.SetPrimary(input.Draft, input.ColorID)
}
