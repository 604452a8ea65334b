package orders

import (
	"context"

	"tavolo/internal/core/id"
)

// Repository defines the interface for live order persistence.
type Repository interface {
	// Create inserts a new order
	Create(ctx context.Context, order *Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id id.ID) (*Order, error)

	// Update modifies an existing order (with optimistic locking)
	Update(ctx context.Context, order *Order) error

	// Delete removes an order permanently
	Delete(ctx context.Context, id id.ID) error

	// ListByRange returns orders with created_at_ms in [startMs, endMs]
	// inclusive, ascending by created_at_ms
	ListByRange(ctx context.Context, startMs, endMs int64) ([]*Order, error)

	// DeleteByIDs removes orders in bulk; used by the day-close drain
	DeleteByIDs(ctx context.Context, ids []id.ID) error
}
