// Package category provides the menu Category catalog.
// Categories group menu items for the sell screen and for report filtering.
package category

import (
	"context"

	"tavolo/internal/core/entity"
)

// Category represents a menu category (Drinks, Burgers, ...).
type Category struct {
	entity.Catalog

	// DisplayOrder controls position on the sell screen
	DisplayOrder int `db:"display_order" json:"displayOrder"`

	// Icon is an optional icon identifier
	Icon *string `db:"icon" json:"icon,omitempty"`

	// Thumbnail is an optional image reference
	Thumbnail *string `db:"thumbnail" json:"thumbnail,omitempty"`

	// IsEnabled hides the category from the sell screen without deleting it
	IsEnabled bool `db:"is_enabled" json:"isEnabled"`
}

// NewCategory creates a new Category with required fields.
func NewCategory(code, name string, displayOrder int) *Category {
	return &Category{
		Catalog:      entity.NewCatalog(code, name),
		DisplayOrder: displayOrder,
		IsEnabled:    true,
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
