package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tavolo/internal/domain/catalogs/category"
	"tavolo/internal/infrastructure/http/v1/dto"
)

// CategoryHTTPHandler shortens the generic handler signature.
type CategoryHTTPHandler = CatalogHandler[
	*category.Category,
	dto.CreateCategoryRequest,
	dto.UpdateCategoryRequest,
]

// CategoryHandler adds the sell-screen ordering endpoint on top of the
// generic catalog CRUD.
type CategoryHandler struct {
	*CategoryHTTPHandler
	service *category.Service
}

// NewCategoryHandler creates a configured category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	config := CatalogHandlerConfig[
		*category.Category,
		dto.CreateCategoryRequest,
		dto.UpdateCategoryRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "category",

		MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *category.Category) any {
			return dto.FromCategory(entity)
		},
	}

	return &CategoryHandler{
		CategoryHTTPHandler: NewCatalogHandler(base, config),
		service:             service,
	}
}

// ListOrdered handles GET /categories/ordered - sell-screen order.
func (h *CategoryHandler) ListOrdered(c *gin.Context) {
	categories, err := h.service.ListOrdered(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CategoryResponse, len(categories))
	for i, cat := range categories {
		items[i] = dto.FromCategory(cat)
	}

	c.JSON(http.StatusOK, items)
}
