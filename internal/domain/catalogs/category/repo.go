package category

import (
	"context"

	"tavolo/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// ListOrdered returns all live categories sorted by display_order, then name.
	ListOrdered(ctx context.Context) ([]*Category, error)
}
