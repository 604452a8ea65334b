package category

import (
	"context"

	"tavolo/internal/core/id"
	"tavolo/internal/core/tx"
	"tavolo/internal/domain"
)

// Service provides business logic for the Category catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when none was provided.
func (s *Service) prepareForCreate(ctx context.Context, c *Category) error {
	if c.Code == "" {
		c.Code = id.NewShort()
	}
	return nil
}

// ListOrdered returns all live categories in display order.
func (s *Service) ListOrdered(ctx context.Context) ([]*Category, error) {
	return s.repo.ListOrdered(ctx)
}
