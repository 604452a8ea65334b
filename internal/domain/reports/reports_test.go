package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/orders"
)

// --- fakes ---

type fakeRepo struct {
	byDate map[businessday.Date]*DayReport
}

func (r *fakeRepo) Get(ctx context.Context, date businessday.Date) (*DayReport, error) {
	return r.byDate[date], nil
}

func (r *fakeRepo) Put(ctx context.Context, report *DayReport) error {
	r.byDate[report.Date] = report
	return nil
}

func (r *fakeRepo) ListRange(ctx context.Context, start, end businessday.Date) ([]*DayReport, error) {
	var out []*DayReport
	for _, rep := range r.byDate {
		if !rep.Date.Before(start) && !end.Before(rep.Date) {
			out = append(out, rep)
		}
	}
	// ascending by date, like the real repository
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Date.Before(out[i].Date) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type fakeCatalog struct {
	byCategory map[id.ID]map[id.ID]struct{}
}

func (c *fakeCatalog) ItemIDsByCategory(ctx context.Context, categoryID id.ID) (map[id.ID]struct{}, error) {
	return c.byCategory[categoryID], nil
}

// --- fixture data ---

var (
	colaID    = id.New()
	burgerID  = id.New()
	drinksCat = id.New()
	foodCat   = id.New()
)

func money(s string) types.Money { return types.MustMoney(s) }

func scenarioRun() Run {
	eatIn := orders.TypeEatIn
	toGo := orders.TypeToGo
	return Run{
		CreatedAt:  time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC).UnixMilli(),
		OrderCount: 3,
		Total:      money("23.50"),
		TotalsByPayment: map[orders.PaymentMethod]types.Money{
			orders.PaymentCash:   money("13.00"),
			orders.PaymentQRCode: money("10.50"),
			orders.PaymentCard:   money("0"),
			orders.PaymentOther:  money("0"),
		},
		TotalsByOrderType: map[orders.OrderType]types.Money{
			orders.TypeEatIn: money("13.00"),
			orders.TypeToGo:  money("10.50"),
		},
		Items: []RunItem{
			{ItemID: colaID, Name: "Cola", UnitPrice: money("2.5"), Quantity: 3, Total: money("7.50")},
			{ItemID: burgerID, Name: "Burger", UnitPrice: money("8"), Quantity: 2, Total: money("16.00")},
		},
		Orders: []OrderSummary{
			{ID: id.New(), ShortID: "a1", OrderNumber: 1, TotalAmount: money("5.00"), OrderType: &eatIn,
				Items: []orders.Line{{ItemID: colaID, Name: "Cola", Quantity: 2, UnitPrice: money("2.5")}}},
			{ID: id.New(), ShortID: "a2", OrderNumber: 2, TotalAmount: money("10.50"), OrderType: &toGo,
				Items: []orders.Line{
					{ItemID: colaID, Name: "Cola", Quantity: 1, UnitPrice: money("2.5")},
					{ItemID: burgerID, Name: "Burger", Quantity: 1, UnitPrice: money("8")},
				}},
			{ID: id.New(), ShortID: "a3", OrderNumber: 3, TotalAmount: money("8.00"), OrderType: &eatIn,
				Items: []orders.Line{{ItemID: burgerID, Name: "Burger", Quantity: 1, UnitPrice: money("8")}}},
		},
	}
}

func newTestService(reportsByDate map[businessday.Date]*DayReport) *Service {
	catalog := &fakeCatalog{byCategory: map[id.ID]map[id.ID]struct{}{
		drinksCat: {colaID: {}},
		foodCat:   {burgerID: {}},
	}}
	return NewService(&fakeRepo{byDate: reportsByDate}, catalog, time.UTC)
}

// --- tests ---

func TestGetReportsInRange(t *testing.T) {
	svc := newTestService(map[businessday.Date]*DayReport{
		"2025-06-13": {Date: "2025-06-13", Runs: []Run{scenarioRun()}},
		"2025-06-14": {Date: "2025-06-14", Runs: []Run{scenarioRun()}},
		"2025-06-20": {Date: "2025-06-20", Runs: []Run{scenarioRun()}},
	})
	ctx := context.Background()

	t.Run("inclusive bounds ascending", func(t *testing.T) {
		got, err := svc.GetReportsInRange(ctx, "2025-06-13", "2025-06-14")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, businessday.Date("2025-06-13"), got[0].Date)
		assert.Equal(t, businessday.Date("2025-06-14"), got[1].Date)
	})

	t.Run("reversed range rejected", func(t *testing.T) {
		_, err := svc.GetReportsInRange(ctx, "2025-06-14", "2025-06-13")
		assert.Error(t, err)
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		_, err := svc.GetReportsInRange(ctx, "13/06/2025", "2025-06-14")
		assert.Error(t, err)
	})
}

func TestFlatten(t *testing.T) {
	run1 := scenarioRun()
	run2 := scenarioRun()
	run2.OrderCount = 1

	rows := Flatten([]*DayReport{
		{Date: "2025-06-13", Runs: []Run{run1, run2}},
		{Date: "2025-06-14", Runs: []Run{run1}},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, businessday.Date("2025-06-13"), rows[0].Date)
	assert.Equal(t, 0, rows[0].RunIndex)
	assert.Equal(t, 1, rows[1].RunIndex)
	assert.Equal(t, 1, rows[1].OrderCount)
	assert.Equal(t, businessday.Date("2025-06-14"), rows[2].Date)
	assert.Equal(t, 0, rows[2].RunIndex)
}

func TestAggregate_NoFilter(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{}, MetricTotal)
	require.NoError(t, err)

	assert.Equal(t, 3, res.OrderCount)
	assert.True(t, res.GrandTotal.Equal(money("23.50")))

	// Sorted by total descending: Burger 16.00 before Cola 7.50.
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Burger", res.Rows[0].Name)
	assert.Equal(t, "Cola", res.Rows[1].Name)
	assert.Equal(t, 3, res.Rows[1].Quantity)

	require.Len(t, res.ByDate, 1)
	assert.True(t, res.ByDate[0].Value.Equal(money("23.50")))
}

func TestAggregate_QuantityMetric(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{}, MetricQuantity)
	require.NoError(t, err)

	require.Len(t, res.ByDate, 1)
	assert.True(t, res.ByDate[0].Value.Equal(money("5")), "3 colas + 2 burgers")
}

func TestAggregate_CategoryFilter(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{CategoryID: &drinksCat}, MetricTotal)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Cola", res.Rows[0].Name)
	assert.True(t, res.Rows[0].Total.Equal(money("7.50")))

	// Run totals ignore the category filter.
	assert.Equal(t, 3, res.OrderCount)
	assert.True(t, res.GrandTotal.Equal(money("23.50")))

	// The per-date series respects it.
	require.Len(t, res.ByDate, 1)
	assert.True(t, res.ByDate[0].Value.Equal(money("7.50")))
}

func TestAggregate_ItemFilter(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{ItemID: &burgerID}, MetricTotal)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Burger", res.Rows[0].Name)
	assert.Equal(t, 2, res.Rows[0].Quantity)
}

func TestAggregate_OrderTypeFilter(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}
	eatIn := orders.TypeEatIn

	res, err := svc.Aggregate(context.Background(), rows, Filter{OrderType: &eatIn}, MetricTotal)
	require.NoError(t, err)

	// Eat-in orders: #1 (Cola x2) and #3 (Burger x1).
	assert.Equal(t, 2, res.OrderCount)
	assert.True(t, res.GrandTotal.Equal(money("13.00")))

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Burger", res.Rows[0].Name)
	assert.True(t, res.Rows[0].Total.Equal(money("8.00")))
	assert.Equal(t, "Cola", res.Rows[1].Name)
	assert.Equal(t, 2, res.Rows[1].Quantity)
}

func TestAggregate_OrderTypeAndCategoryFilter(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}
	eatIn := orders.TypeEatIn

	res, err := svc.Aggregate(context.Background(), rows,
		Filter{OrderType: &eatIn, CategoryID: &drinksCat}, MetricTotal)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Cola", res.Rows[0].Name)
	assert.Equal(t, 2, res.Rows[0].Quantity)

	// Order-type totals stay unaffected by the category narrowing.
	assert.Equal(t, 2, res.OrderCount)
	assert.True(t, res.GrandTotal.Equal(money("13.00")))
}

func TestAggregate_PriceSplit(t *testing.T) {
	svc := newTestService(nil)
	run := scenarioRun()
	run.Items = append(run.Items, RunItem{
		ItemID: colaID, Name: "Cola", UnitPrice: money("3.0"), Quantity: 1, Total: money("3.00"),
	})
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: run}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{ItemID: &colaID}, MetricTotal)
	require.NoError(t, err)

	// Two price points of the same item stay separate rows.
	require.Len(t, res.Rows, 2)
	assert.True(t, res.Rows[0].Total.Equal(money("7.50")))
	assert.True(t, res.Rows[1].Total.Equal(money("3.00")))
}

func TestAggregate_InvalidMetric(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Aggregate(context.Background(), nil, Filter{}, Metric("revenue"))
	assert.Error(t, err)
}

func TestWriteCSV_ByteFormat(t *testing.T) {
	svc := newTestService(nil)
	rows := []FlatRun{{Date: "2025-06-14", RunIndex: 0, Run: scenarioRun()}}

	res, err := svc.Aggregate(context.Background(), rows, Filter{}, MetricTotal)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))

	want := "Name,Quantity,Unit Price,Total\n" +
		"\"Burger\",2,8,16.00\n" +
		"\"Cola\",3,2.5,7.50\n" +
		"\n" +
		"\"Orders\",\"3\"\n" +
		"\"Grand Total\",\"23.50\""
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EscapesQuotes(t *testing.T) {
	res := &Result{
		Rows: []Row{
			{ItemID: id.New(), Name: `Burger "XL"`, UnitPrice: money("9.5"), Quantity: 1, Total: money("9.50")},
		},
		OrderCount: 1,
		GrandTotal: money("9.50"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Contains(t, buf.String(), `"Burger ""XL""",1,9.5,9.50`)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "report_2025-06-01_to_2025-06-14.csv", Filename("2025-06-01", "2025-06-14"))
}
