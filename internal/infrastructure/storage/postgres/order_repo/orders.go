// Package order_repo provides the PostgreSQL implementation for live orders.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/id"
	"tavolo/internal/domain/orders"
	"tavolo/internal/infrastructure/storage/postgres"
)

const ordersTable = "doc_orders"

// Compile-time check that OrderRepo implements orders.Repository.
var _ orders.Repository = (*OrderRepo)(nil)

// OrderRepo implements orders.Repository on top of the doc_orders table.
// Lines are stored as a jsonb column; created_at_ms is a BIGINT epoch
// millisecond used for business-day range scans.
type OrderRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[orders.Order](),
	}
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *OrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(ordersTable)
}

// Create inserts a new order.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(ordersTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order orders.Order
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

// Update modifies an existing order with optimistic locking.
func (r *OrderRepo) Update(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "created_at_ms" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue // managed by repo
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(ordersTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": order.ID}).
		Where(squirrel.Eq{"version": order.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", order.ID)
	}

	return nil
}

// Delete removes an order permanently.
func (r *OrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	q := r.builder().
		Delete(ordersTable).
		Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("order", orderID.String())
	}

	return nil
}

// ListByRange returns orders with created_at_ms in [startMs, endMs]
// inclusive, ascending by creation time.
func (r *OrderRepo) ListByRange(ctx context.Context, startMs, endMs int64) ([]*orders.Order, error) {
	q := r.baseSelect().
		Where(squirrel.GtOrEq{"created_at_ms": startMs}).
		Where(squirrel.LtOrEq{"created_at_ms": endMs}).
		OrderBy("created_at_ms ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*orders.Order
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return items, nil
}

// DeleteByIDs removes orders in bulk; used by the day-close drain.
func (r *OrderRepo) DeleteByIDs(ctx context.Context, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}

	q := r.builder().
		Delete(ordersTable).
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}

	return nil
}
