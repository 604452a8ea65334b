package dto

import (
	"tavolo/internal/domain/catalogs/category"
)

// CategoryResponse contains category fields.
type CategoryResponse struct {
	BaseResponse
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	DisplayOrder int     `json:"displayOrder"`
	Icon         *string `json:"icon,omitempty"`
	Thumbnail    *string `json:"thumbnail,omitempty"`
	IsEnabled    bool    `json:"isEnabled"`
}

// FromCategory creates CategoryResponse from the entity.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		BaseResponse: FromBaseCatalog(c.BaseCatalog),
		Code:         c.Code,
		Name:         c.Name,
		DisplayOrder: c.DisplayOrder,
		Icon:         c.Icon,
		Thumbnail:    c.Thumbnail,
		IsEnabled:    c.IsEnabled,
	}
}

// CreateCategoryRequest for creating categories.
type CreateCategoryRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	DisplayOrder int     `json:"displayOrder"`
	Icon         *string `json:"icon"`
	Thumbnail    *string `json:"thumbnail"`
	IsEnabled    *bool   `json:"isEnabled"`
}

// ToEntity maps the request to a new entity.
func (r CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Code, r.Name, r.DisplayOrder)
	c.Icon = r.Icon
	c.Thumbnail = r.Thumbnail
	if r.IsEnabled != nil {
		c.IsEnabled = *r.IsEnabled
	}
	return c
}

// UpdateCategoryRequest for updating categories.
type UpdateCategoryRequest struct {
	Code         *string `json:"code"`
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"displayOrder"`
	Icon         *string `json:"icon"`
	Thumbnail    *string `json:"thumbnail"`
	IsEnabled    *bool   `json:"isEnabled"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo patches the existing entity with the provided fields.
func (r UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Code != nil {
		c.Code = *r.Code
	}
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.DisplayOrder != nil {
		c.DisplayOrder = *r.DisplayOrder
	}
	if r.Icon != nil {
		c.Icon = r.Icon
	}
	if r.Thumbnail != nil {
		c.Thumbnail = r.Thumbnail
	}
	if r.IsEnabled != nil {
		c.IsEnabled = *r.IsEnabled
	}
	c.Version = r.Version
}
