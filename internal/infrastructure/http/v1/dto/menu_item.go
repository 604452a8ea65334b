package dto

import (
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/catalogs/menuitem"
)

// MenuItemResponse contains menu item fields.
type MenuItemResponse struct {
	BaseResponse
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	CategoryID  string            `json:"categoryId"`
	Price       types.Money       `json:"price"`
	Description *string           `json:"description,omitempty"`
	Thumbnail   *string           `json:"thumbnail,omitempty"`
	Icon        *string           `json:"icon,omitempty"`
	IsEnabled   bool              `json:"isEnabled"`
	Variants    menuitem.Variants `json:"variants,omitempty"`
}

// FromMenuItem creates MenuItemResponse from the entity.
func FromMenuItem(m *menuitem.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		BaseResponse: FromBaseCatalog(m.BaseCatalog),
		Code:         m.Code,
		Name:         m.Name,
		CategoryID:   m.CategoryID.String(),
		Price:        m.Price,
		Description:  m.Description,
		Thumbnail:    m.Thumbnail,
		Icon:         m.Icon,
		IsEnabled:    m.IsEnabled,
		Variants:     m.Variants,
	}
}

// CreateMenuItemRequest for creating menu items.
type CreateMenuItemRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	CategoryID  id.ID             `json:"categoryId" binding:"required"`
	Price       types.Money       `json:"price"`
	Description *string           `json:"description"`
	Thumbnail   *string           `json:"thumbnail"`
	Icon        *string           `json:"icon"`
	IsEnabled   *bool             `json:"isEnabled"`
	Variants    menuitem.Variants `json:"variants"`
}

// ToEntity maps the request to a new entity.
func (r CreateMenuItemRequest) ToEntity() *menuitem.MenuItem {
	m := menuitem.NewMenuItem(r.Code, r.Name, r.Price, r.CategoryID)
	m.Description = r.Description
	m.Thumbnail = r.Thumbnail
	m.Icon = r.Icon
	m.Variants = r.Variants
	if r.IsEnabled != nil {
		m.IsEnabled = *r.IsEnabled
	}
	return m
}

// UpdateMenuItemRequest for updating menu items.
type UpdateMenuItemRequest struct {
	Code        *string           `json:"code"`
	Name        *string           `json:"name"`
	CategoryID  *id.ID            `json:"categoryId"`
	Price       *types.Money      `json:"price"`
	Description *string           `json:"description"`
	Thumbnail   *string           `json:"thumbnail"`
	Icon        *string           `json:"icon"`
	IsEnabled   *bool             `json:"isEnabled"`
	Variants    menuitem.Variants `json:"variants"`
	Version     int               `json:"version" binding:"required,min=1"`
}

// ApplyTo patches the existing entity with the provided fields.
func (r UpdateMenuItemRequest) ApplyTo(m *menuitem.MenuItem) {
	if r.Code != nil {
		m.Code = *r.Code
	}
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.CategoryID != nil {
		m.CategoryID = *r.CategoryID
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.Description != nil {
		m.Description = r.Description
	}
	if r.Thumbnail != nil {
		m.Thumbnail = r.Thumbnail
	}
	if r.Icon != nil {
		m.Icon = r.Icon
	}
	if r.IsEnabled != nil {
		m.IsEnabled = *r.IsEnabled
	}
	if r.Variants != nil {
		m.Variants = r.Variants
	}
	m.Version = r.Version
}
