// Package reports provides the immutable day-close history: report runs
// appended per business day, range queries over them, filtered
// re-aggregation and CSV export.
package reports

import (
	"context"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/orders"
)

// RunItem is one aggregated menu position inside a run, keyed by
// (itemId, 2-dp unit price).
type RunItem struct {
	ItemID    id.ID       `json:"itemId"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	Total     types.Money `json:"total"`
}

// OrderSummary is the per-order record kept inside a run. It carries the
// order type and line snapshots so order-type filtering can re-aggregate
// from individual orders after the live orders are gone.
type OrderSummary struct {
	ID          id.ID             `json:"id"`
	ShortID     string            `json:"shortId"`
	OrderNumber int               `json:"orderNumber"`
	TotalAmount types.Money       `json:"totalAmount"`
	OrderType   *orders.OrderType `json:"orderType,omitempty"`
	Items       []orders.Line     `json:"items,omitempty"`
}

// Run is one finalization of a business day. Runs are append-only: a
// second finalize on the same date adds a run, it never touches earlier
// ones.
type Run struct {
	CreatedAt         int64                                `json:"createdAt"`
	OrderCount        int                                  `json:"orderCount"`
	Total             types.Money                          `json:"total"`
	TotalsByPayment   map[orders.PaymentMethod]types.Money `json:"totalsByPayment"`
	TotalsByOrderType map[orders.OrderType]types.Money     `json:"totalsByOrderType,omitempty"`
	Items             []RunItem                            `json:"items"`
	Orders            []OrderSummary                       `json:"orders"`
}

// DayReport is the report record of one date, holding every run of that
// day in finalization order.
type DayReport struct {
	Date businessday.Date `json:"date"`
	Runs []Run            `json:"runs"`
}

// FlatRun is one run annotated with its date and position, the shape
// range reporting works on.
type FlatRun struct {
	Date     businessday.Date `json:"date"`
	RunIndex int              `json:"runIndex"`
	Run
}

// Repository persists day reports. Get returns nil when no report
// exists for the date. Implementations upgrade the legacy single-run
// payload shape to Runs on read; domain code only ever sees runs.
type Repository interface {
	Get(ctx context.Context, date businessday.Date) (*DayReport, error)
	Put(ctx context.Context, report *DayReport) error

	// ListRange returns reports with start <= date <= end, ascending.
	ListRange(ctx context.Context, start, end businessday.Date) ([]*DayReport, error)
}

// CatalogLookup resolves the current catalog mapping used by the
// category filter. Historic runs do not record categories, so filtering
// by category always reflects today's catalog.
type CatalogLookup interface {
	ItemIDsByCategory(ctx context.Context, categoryID id.ID) (map[id.ID]struct{}, error)
}
