package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tavolo/internal/domain/catalogs/category"
	"tavolo/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			categoryTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// ListOrdered returns all live categories sorted by display_order, then name.
func (r *CategoryRepo) ListOrdered(ctx context.Context) ([]*category.Category, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("display_order ASC", "name ASC")

	return r.FindMany(ctx, q)
}
