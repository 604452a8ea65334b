package menuitem

import (
	"context"

	"tavolo/internal/core/id"
	"tavolo/internal/domain"
)

// Repository defines the interface for MenuItem persistence.
type Repository interface {
	domain.CatalogRepository[*MenuItem]

	// ListByCategory returns live items of one category sorted by name.
	ListByCategory(ctx context.Context, categoryID id.ID) ([]*MenuItem, error)

	// GetMany retrieves items by IDs in one query. Missing IDs are
	// silently absent from the result.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*MenuItem, error)
}
