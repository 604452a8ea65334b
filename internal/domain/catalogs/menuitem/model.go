// Package menuitem provides the MenuItem catalog.
// A menu item is one sellable position with a current unit price and a
// category reference. Orders snapshot name and price at checkout, so
// later edits here never rewrite history.
package menuitem

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/entity"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
)

// Variant is a named price modification of the base item (e.g. "Large" +1.50).
type Variant struct {
	Label      string      `json:"label"`
	PriceDelta types.Money `json:"priceDelta"`
}

// Variants is stored as a JSONB array.
type Variants []Variant

// Scan implements sql.Scanner.
func (v *Variants) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported type for Variants: %T", src)
	}
	if len(data) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(data, v)
}

// Value implements driver.Valuer.
func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// MenuItem represents one sellable menu position.
type MenuItem struct {
	entity.Catalog

	// CategoryID references the owning category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// Price is the current base unit price
	Price types.Money `db:"price" json:"price"`

	// Description is an optional longer text
	Description *string `db:"description" json:"description,omitempty"`

	// Thumbnail is an optional image reference
	Thumbnail *string `db:"thumbnail" json:"thumbnail,omitempty"`

	// Icon is an optional icon identifier
	Icon *string `db:"icon" json:"icon,omitempty"`

	// IsEnabled hides the item from the sell screen without deleting it
	IsEnabled bool `db:"is_enabled" json:"isEnabled"`

	// Variants are optional named price modifications
	Variants Variants `db:"variants" json:"variants,omitempty"`
}

// NewMenuItem creates a new MenuItem with required fields.
func NewMenuItem(code, name string, price types.Money, categoryID id.ID) *MenuItem {
	return &MenuItem{
		Catalog:    entity.NewCatalog(code, name),
		Price:      price,
		CategoryID: categoryID,
		IsEnabled:  true,
	}
}

// UnitPrice returns the effective price for the given variant label.
// An unknown or empty label resolves to the base price.
func (m *MenuItem) UnitPrice(variantLabel string) types.Money {
	if variantLabel == "" {
		return m.Price
	}
	for _, v := range m.Variants {
		if v.Label == variantLabel {
			return m.Price.Add(v.PriceDelta)
		}
	}
	return m.Price
}

// Validate implements entity.Validatable interface.
func (m *MenuItem) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price").
			WithDetail("value", m.Price.String())
	}

	if id.IsNil(m.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	for _, v := range m.Variants {
		if v.Label == "" {
			return apperror.NewValidation("variant label is required").
				WithDetail("field", "variants")
		}
		if m.Price.Add(v.PriceDelta).IsNegative() {
			return apperror.NewValidation("variant price must not be negative").
				WithDetail("field", "variants").
				WithDetail("variant", v.Label)
		}
	}

	return nil
}
