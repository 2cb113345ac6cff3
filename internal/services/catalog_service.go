package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopstack/catalogd/internal/cache"
	"github.com/shopstack/catalogd/internal/models"
	"github.com/shopstack/catalogd/pkg/metrics"
	"github.com/shopstack/catalogd/pkg/validator"
)

var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("catalog service: product not found")

	// ErrInvalidInput marks input that failed domain validation.
	ErrInvalidInput = errors.New("catalog service: invalid input")
)

// DefaultCacheTTL bounds staleness of cached catalog entries absent writes.
const DefaultCacheTTL = 300 * time.Second

// CatalogService orchestrates product reads and writes across the database
// and the cache. The write path only ever deletes cache keys; the read path
// repopulates them lazily from the database. Between a committed write and
// its invalidation a concurrent reader may briefly re-cache the pre-write
// value; that window is bounded by the TTL and accepted.
type CatalogService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

// NewCatalogService constructs a catalog service. TTL values <= 0 fall back
// to DefaultCacheTTL.
func NewCatalogService(db *gorm.DB, store cache.Store, ttl time.Duration) (*CatalogService, error) {
	if db == nil {
		return nil, errors.New("catalog service: db is required")
	}
	if store == nil {
		return nil, errors.New("catalog service: cache store is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CatalogService{db: db, cache: store, ttl: ttl}, nil
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// ProductInput captures the writable product fields for Create and Update.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.ValidateStruct(in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

// Create inserts a new product; the database assigns its identifier. The
// aggregate listing key is invalidated, never populated, on this path.
func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if s == nil {
		return nil, errors.New("catalog service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	if err := input.validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		metrics.CatalogOperations.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.ListingKey); err != nil {
		metrics.CatalogOperations.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	metrics.CacheInvalidations.WithLabelValues("create").Inc()
	metrics.CatalogOperations.WithLabelValues("create", "ok").Inc()

	return &product, nil
}

// List returns every product ordered by ascending identifier. When useCache
// is true a listing cache hit is served without touching the database; the
// cached payload may lag writes by at most the TTL. Misses (and useCache
// false) read the database and repopulate the listing key with a fresh TTL.
func (s *CatalogService) List(ctx context.Context, useCache bool) ([]models.Product, error) {
	if s == nil {
		return nil, errors.New("catalog service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	if useCache {
		payload, ok, err := s.cache.Get(ctx, cache.ListingKey)
		if err != nil {
			metrics.CatalogOperations.WithLabelValues("list", "error").Inc()
			return nil, err
		}
		if ok {
			metrics.CacheLookups.WithLabelValues("listing", "hit").Inc()
			var products []models.Product
			if err := json.Unmarshal(payload, &products); err != nil {
				return nil, err
			}
			metrics.CatalogOperations.WithLabelValues("list", "ok").Inc()
			return products, nil
		}
		metrics.CacheLookups.WithLabelValues("listing", "miss").Inc()
	}

	products := make([]models.Product, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		metrics.CatalogOperations.WithLabelValues("list", "error").Inc()
		return nil, err
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.ListingKey, payload, s.ttl); err != nil {
		metrics.CatalogOperations.WithLabelValues("list", "error").Inc()
		return nil, err
	}

	metrics.CatalogOperations.WithLabelValues("list", "ok").Inc()
	return products, nil
}

// Get returns a single product, serving the per-identifier cache key when
// present and repopulating it from the database on a miss.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	if s == nil {
		return nil, errors.New("catalog service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	key := cache.ProductKey(id)

	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CatalogOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("product", "hit").Inc()
		var product models.Product
		if err := json.Unmarshal(payload, &product); err != nil {
			return nil, err
		}
		metrics.CatalogOperations.WithLabelValues("get", "ok").Inc()
		return &product, nil
	}
	metrics.CacheLookups.WithLabelValues("product", "miss").Inc()

	var product models.Product
	if err := s.db.WithContext(ctx).Take(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.CatalogOperations.WithLabelValues("get", "not_found").Inc()
			return nil, ErrProductNotFound
		}
		metrics.CatalogOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}

	payload, err = json.Marshal(product)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		metrics.CatalogOperations.WithLabelValues("get", "error").Inc()
		return nil, err
	}

	metrics.CatalogOperations.WithLabelValues("get", "ok").Inc()
	return &product, nil
}

// Update applies the supplied fields with a single conditional UPDATE keyed
// by identifier, then invalidates both the per-identifier and the aggregate
// listing keys. Deletion, not repopulation: the next read goes to the
// database and re-caches whatever it now holds.
func (s *CatalogService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	if s == nil {
		return nil, errors.New("catalog service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	if err := input.validate(); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       input.Price,
			"stock":       input.Stock,
		})
	if res.Error != nil {
		metrics.CatalogOperations.WithLabelValues("update", "error").Inc()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		metrics.CatalogOperations.WithLabelValues("update", "not_found").Inc()
		return nil, ErrProductNotFound
	}

	var product models.Product
	if err := s.db.WithContext(ctx).Take(&product, "id = ?", id).Error; err != nil {
		metrics.CatalogOperations.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.ProductKey(id), cache.ListingKey); err != nil {
		metrics.CatalogOperations.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	metrics.CacheInvalidations.WithLabelValues("update").Inc()
	metrics.CatalogOperations.WithLabelValues("update", "ok").Inc()

	return &product, nil
}

// Delete removes a product with a single conditional DELETE keyed by
// identifier and invalidates both cache keys.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if s == nil {
		return errors.New("catalog service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		metrics.CatalogOperations.WithLabelValues("delete", "error").Inc()
		return res.Error
	}
	if res.RowsAffected == 0 {
		metrics.CatalogOperations.WithLabelValues("delete", "not_found").Inc()
		return ErrProductNotFound
	}

	if err := s.cache.Delete(ctx, cache.ProductKey(id), cache.ListingKey); err != nil {
		metrics.CatalogOperations.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.CacheInvalidations.WithLabelValues("delete").Inc()
	metrics.CatalogOperations.WithLabelValues("delete", "ok").Inc()

	return nil
}
