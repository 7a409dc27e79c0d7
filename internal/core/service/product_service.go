package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

const defaultProductCacheTTL = 5 * time.Minute

// ProductService is plain catalog CRUD with a read-through cache for single
// product reads. Cache errors never fail a request.
type ProductService struct {
	repo     ports.ProductRepository
	cache    ports.ProductCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, cacheTTL time.Duration, log zerolog.Logger) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = defaultProductCacheTTL
	}
	return &ProductService{repo: repo, cache: cache, cacheTTL: cacheTTL, log: log}
}

func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info().Int64("product_id", created.ID).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, id)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx, id)
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// Get serves from the cache when possible and fills it on a miss.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int64("product_id", id).Msg("product cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Int64("product_id", id).Msg("product cache write failed")
		}
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("product_id", id).Msg("product cache invalidation failed")
	}
}

func productFromInput(in ports.ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := domain.CheckAmount("price", in.Price); err != nil {
		return nil, err
	}
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case in.Stock < 0:
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}

	return &domain.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}, nil
}
