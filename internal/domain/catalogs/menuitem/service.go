package menuitem

import (
	"context"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/id"
	"tavolo/internal/core/tx"
	"tavolo/internal/domain"
	"tavolo/internal/domain/catalogs/category"
)

// Service provides business logic for the MenuItem catalog.
type Service struct {
	*domain.CatalogService[*MenuItem]
	repo       Repository
	categories category.Repository
}

// NewService creates a new MenuItem service.
func NewService(repo Repository, categories category.Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*MenuItem]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "menu item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkCategory)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, m *MenuItem) error {
	if m.Code == "" {
		m.Code = id.NewShort()
	}
	return s.checkCategory(ctx, m)
}

// checkCategory verifies the referenced category exists and is live.
func (s *Service) checkCategory(ctx context.Context, m *MenuItem) error {
	exists, err := s.categories.Exists(ctx, m.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("category", m.CategoryID.String())
	}
	return nil
}

// ListByCategory returns live items of one category in display order.
func (s *Service) ListByCategory(ctx context.Context, categoryID id.ID) ([]*MenuItem, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}
