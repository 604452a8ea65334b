package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/id"
	"tavolo/internal/domain/catalogs/menuitem"
	"tavolo/internal/infrastructure/http/v1/dto"
)

// MenuItemHTTPHandler shortens the generic handler signature.
type MenuItemHTTPHandler = CatalogHandler[
	*menuitem.MenuItem,
	dto.CreateMenuItemRequest,
	dto.UpdateMenuItemRequest,
]

// MenuItemHandler adds category-scoped listing on top of the generic
// catalog CRUD.
type MenuItemHandler struct {
	*MenuItemHTTPHandler
	service *menuitem.Service
}

// NewMenuItemHandler creates a configured menu item handler.
func NewMenuItemHandler(base *BaseHandler, service *menuitem.Service) *MenuItemHandler {
	config := CatalogHandlerConfig[
		*menuitem.MenuItem,
		dto.CreateMenuItemRequest,
		dto.UpdateMenuItemRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "menu_item",

		MapCreateDTO: func(req dto.CreateMenuItemRequest) *menuitem.MenuItem {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateMenuItemRequest, existing *menuitem.MenuItem) *menuitem.MenuItem {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *menuitem.MenuItem) any {
			return dto.FromMenuItem(entity)
		},
	}

	return &MenuItemHandler{
		MenuItemHTTPHandler: NewCatalogHandler(base, config),
		service:             service,
	}
}

// ListByCategory handles GET /menu-items/by-category?categoryId=...
func (h *MenuItemHandler) ListByCategory(c *gin.Context) {
	categoryID, err := id.Parse(c.Query("categoryId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid categoryId").WithDetail("categoryId", c.Query("categoryId")))
		return
	}

	items, err := h.service.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	result := make([]dto.MenuItemResponse, len(items))
	for i, item := range items {
		result[i] = dto.FromMenuItem(item)
	}

	c.JSON(http.StatusOK, result)
}
