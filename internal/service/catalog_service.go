package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Mega4Real/ednascollectionnew/internal/cache"
	"github.com/Mega4Real/ednascollectionnew/internal/domain"
	"github.com/Mega4Real/ednascollectionnew/internal/notify"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
)

// ProductInput carries the mutable product fields for create and update.
type ProductInput struct {
	ImageURL string   `json:"imageUrl"`
	VideoURL string   `json:"videoUrl"`
	Price    float64  `json:"price"`
	Sizes    []string `json:"sizes"`
	IsSold   bool     `json:"isSold"`
}

type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	hub   *notify.Hub
	sfg   singleflight.Group // Prevents cache stampede on the listing
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache, hub *notify.Hub) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		hub:   hub,
	}
}

// List returns all products ordered by position. The listing is served from
// cache when possible; cache failures degrade to the database.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("listing", func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		products, errList := s.repo.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		// Stored before Do returns: an async repopulation could land after
		// a concurrent mutation's invalidate and pin a stale listing until
		// the TTL expires.
		if errSet := s.cache.Set(ctx, products); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Create appends a product at the tail of the display order.
func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ImageURL: input.ImageURL,
		VideoURL: input.VideoURL,
		Price:    input.Price,
		Sizes:    input.Sizes,
		IsSold:   input.IsSold,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterMutation()
	return product, nil
}

// Update replaces all mutable fields of the product.
func (s *CatalogService) Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:       id,
		ImageURL: input.ImageURL,
		VideoURL: input.VideoURL,
		Price:    input.Price,
		Sizes:    input.Sizes,
		IsSold:   input.IsSold,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterMutation()
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.afterMutation()
	return nil
}

// Reorder assigns positions following the order of ids. The operation is
// all-or-nothing; an unknown id leaves every position untouched.
func (s *CatalogService) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: product id list is empty", ErrValidation)
	}

	err := s.repo.ReorderProducts(ctx, ids)
	if errors.Is(err, repository.ErrProductNotFound) {
		return fmt.Errorf("%w: reorder references an unknown product id", ErrValidation)
	}
	if err != nil {
		return err
	}

	s.afterMutation()
	return nil
}

// Subscribe registers a storefront viewer for change signals.
func (s *CatalogService) Subscribe() (*notify.Subscriber, error) {
	return s.hub.Subscribe()
}

func (s *CatalogService) Unsubscribe(sub *notify.Subscriber) {
	s.hub.Unsubscribe(sub)
}

// afterMutation fans out the change signal and drops the stale listing from
// cache. Both are fire-and-forget.
func (s *CatalogService) afterMutation() {
	s.hub.Notify()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func validateProductInput(input ProductInput) error {
	if input.ImageURL == "" {
		return fmt.Errorf("%w: imageUrl is required", ErrValidation)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}
	if len(input.Sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", ErrValidation)
	}
	return nil
}
