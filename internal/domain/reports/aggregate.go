package reports

import (
	"context"
	"sort"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/orders"
)

// Metric selects what Aggregate measures per date.
type Metric string

const (
	MetricTotal    Metric = "total"
	MetricQuantity Metric = "quantity"
)

// Filter narrows an aggregation. Filters apply in order: order type
// first (which switches aggregation to a per-order walk), then category
// (resolved against the current catalog), then item.
type Filter struct {
	OrderType  *orders.OrderType
	CategoryID *id.ID
	ItemID     *id.ID
}

// Row is one aggregated menu position across the selected runs.
type Row struct {
	ItemID    id.ID       `json:"itemId"`
	Name      string      `json:"name"`
	UnitPrice types.Money `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	Total     types.Money `json:"total"`
}

// DatePoint is the per-date series value for charting.
type DatePoint struct {
	Date  businessday.Date `json:"date"`
	Value types.Money      `json:"value"`
}

// Result is a filtered aggregation over a set of flattened runs.
// OrderCount and GrandTotal respect the order-type filter only; the
// category and item filters narrow Rows and ByDate but leave the run
// totals untouched.
type Result struct {
	Rows       []Row       `json:"rows"`
	OrderCount int         `json:"orderCount"`
	GrandTotal types.Money `json:"grandTotal"`
	ByDate     []DatePoint `json:"byDate"`
}

// aggKey builds the (itemId, 2-dp price) aggregation key. Two sales of
// the same item at different prices stay separate rows.
func aggKey(itemID id.ID, unitPrice types.Money) string {
	return itemID.String() + "::" + types.PriceKey(unitPrice)
}

type accumulator struct {
	rows  map[string]*Row
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{rows: make(map[string]*Row)}
}

func (a *accumulator) add(itemID id.ID, name string, unitPrice types.Money, quantity int, total types.Money) {
	key := aggKey(itemID, unitPrice)
	if existing, ok := a.rows[key]; ok {
		existing.Quantity += quantity
		existing.Total = existing.Total.Add(total)
		return
	}
	a.rows[key] = &Row{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Total:     total,
	}
	a.order = append(a.order, key)
}

func (a *accumulator) sorted() []Row {
	out := make([]Row, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.rows[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// Aggregate re-aggregates flattened runs under the given filter.
func (s *Service) Aggregate(ctx context.Context, runs []FlatRun, f Filter, metric Metric) (*Result, error) {
	switch metric {
	case "":
		metric = MetricTotal
	case MetricTotal, MetricQuantity:
	default:
		return nil, apperror.NewValidation("invalid metric").WithDetail("value", string(metric))
	}

	// Category membership against the current catalog, resolved once.
	var categoryItems map[id.ID]struct{}
	if f.CategoryID != nil {
		var err error
		categoryItems, err = s.catalog.ItemIDsByCategory(ctx, *f.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	passes := func(itemID id.ID) bool {
		if f.ItemID != nil && itemID != *f.ItemID {
			return false
		}
		if f.CategoryID != nil {
			if _, ok := categoryItems[itemID]; !ok {
				return false
			}
		}
		return true
	}

	acc := newAccumulator()
	result := &Result{GrandTotal: types.Zero()}
	byDate := make(map[businessday.Date]types.Money)
	var dates []businessday.Date

	addDateValue := func(date businessday.Date, v types.Money) {
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = byDate[date].Add(v)
	}

	for _, run := range runs {
		dateValue := types.Zero()

		if f.OrderType != nil {
			// Per-order walk: only orders of the selected type count,
			// for rows and for the run totals alike.
			for _, ord := range run.Orders {
				if ord.OrderType == nil || *ord.OrderType != *f.OrderType {
					continue
				}
				result.OrderCount++
				result.GrandTotal = result.GrandTotal.Add(ord.TotalAmount)
				for _, it := range ord.Items {
					if !passes(it.ItemID) {
						continue
					}
					lineTotal := it.Total()
					acc.add(it.ItemID, it.Name, it.UnitPrice, it.Quantity, lineTotal)
					if metric == MetricTotal {
						dateValue = dateValue.Add(lineTotal)
					} else {
						dateValue = dateValue.Add(types.NewMoney(float64(it.Quantity)))
					}
				}
			}
		} else {
			result.OrderCount += run.OrderCount
			result.GrandTotal = result.GrandTotal.Add(run.Total)

			filtered := f.CategoryID != nil || f.ItemID != nil
			for _, it := range run.Items {
				if !passes(it.ItemID) {
					continue
				}
				acc.add(it.ItemID, it.Name, it.UnitPrice, it.Quantity, it.Total)
				if filtered {
					if metric == MetricTotal {
						dateValue = dateValue.Add(it.Total)
					} else {
						dateValue = dateValue.Add(types.NewMoney(float64(it.Quantity)))
					}
				}
			}
			if !filtered {
				if metric == MetricTotal {
					dateValue = run.Total
				} else {
					qty := 0
					for _, it := range run.Items {
						qty += it.Quantity
					}
					dateValue = types.NewMoney(float64(qty))
				}
			}
		}

		addDateValue(run.Date, dateValue)
	}

	result.Rows = acc.sorted()
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, d := range dates {
		result.ByDate = append(result.ByDate, DatePoint{Date: d, Value: byDate[d]})
	}
	return result, nil
}
