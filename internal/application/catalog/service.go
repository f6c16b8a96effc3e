package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
	"github.com/oksasatya/go-storefront/internal/domain/repository"
)

// SearchIndex is a full-text product index.
type SearchIndex interface {
	Search(ctx context.Context, query string, size int) ([]entity.Product, error)
	Index(ctx context.Context, p entity.Product) error
	Delete(ctx context.Context, productID string) error
}

// Service serves the storefront product list.
type Service struct {
	Products repository.ProductSource
	Index    SearchIndex
	Logger   *logrus.Logger
}

func NewService(products repository.ProductSource, index SearchIndex, logger *logrus.Logger) *Service {
	return &Service{Products: products, Index: index, Logger: logger}
}

// List returns the catalog narrowed by query and category.
func (s *Service) List(ctx context.Context, query, category string) ([]entity.Product, error) {
	products, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return FilterProducts(products, query, category), nil
}

// Search uses the search index when one is configured and falls back to the
// in-memory filter when it is missing or failing.
func (s *Service) Search(ctx context.Context, query string, size int) ([]entity.Product, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	if s.Index != nil && query != "" {
		res, err := s.Index.Search(ctx, query, size)
		if err == nil {
			return res, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("query", query).Warn("search index failed, filtering in memory")
		}
	}
	res, err := s.List(ctx, query, "")
	if err != nil {
		return nil, err
	}
	if len(res) > size {
		res = res[:size]
	}
	return res, nil
}

// Reindex pushes one product to the search index; it is a no-op without one.
func (s *Service) Reindex(ctx context.Context, p entity.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product index failed")
	}
}

func (s *Service) Unindex(ctx context.Context, productID string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Delete(ctx, productID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("product_id", productID).Warn("product unindex failed")
	}
}

// ReindexAll loads the whole catalog into the search index.
func (s *Service) ReindexAll(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	products, err := s.Products.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	n := 0
	for _, p := range products {
		if err := s.Index.Index(ctx, p); err != nil {
			return n, fmt.Errorf("index product %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}
