package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"tavolo/internal/core/id"
	"tavolo/internal/domain/catalogs/menuitem"
	"tavolo/internal/infrastructure/storage/postgres"
)

const menuItemTable = "cat_menu_items"

// MenuItemRepo implements menuitem.Repository.
// It also serves as the catalog lookup for report aggregation
// (resolving a category to its current item IDs).
type MenuItemRepo struct {
	*BaseCatalogRepo[*menuitem.MenuItem]
}

// NewMenuItemRepo creates a new menu item repository.
func NewMenuItemRepo(txm *postgres.TxManager) *MenuItemRepo {
	return &MenuItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			menuItemTable,
			postgres.ExtractDBColumns[menuitem.MenuItem](),
			func() *menuitem.MenuItem { return &menuitem.MenuItem{} },
		),
	}
}

// ListByCategory returns live items of one category sorted by name.
func (r *MenuItemRepo) ListByCategory(ctx context.Context, categoryID id.ID) ([]*menuitem.MenuItem, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"category_id": categoryID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindMany(ctx, q)
}

// GetMany retrieves items by IDs in one query. Missing IDs are
// silently absent from the result.
func (r *MenuItemRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*menuitem.MenuItem, error) {
	result := make(map[id.ID]*menuitem.MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": ids})

	items, err := r.FindMany(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get many: %w", err)
	}

	for _, item := range items {
		result[item.ID] = item
	}

	return result, nil
}

// ItemIDsByCategory resolves a category to the IDs of its current items,
// including soft-deleted ones so historical report rows still match.
func (r *MenuItemRepo) ItemIDsByCategory(ctx context.Context, categoryID id.ID) (map[id.ID]struct{}, error) {
	q := r.Builder().
		Select("id").
		From(menuItemTable).
		Where(squirrel.Eq{"category_id": categoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("item ids by category: %w", err)
	}
	defer rows.Close()

	ids := make(map[id.ID]struct{})
	for rows.Next() {
		var itemID id.ID
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids[itemID] = struct{}{}
	}

	return ids, rows.Err()
}
