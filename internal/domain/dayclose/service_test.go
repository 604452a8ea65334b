package dayclose

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/entity"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/numbering"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/reports"
)

// --- fakes ---

type fakeOrderRepo struct {
	byID map[id.ID]*orders.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: make(map[id.ID]*orders.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *orders.Order) error {
	r.byID[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	return r.byID[orderID], nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *orders.Order) error {
	r.byID[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	delete(r.byID, orderID)
	return nil
}

func (r *fakeOrderRepo) ListByRange(ctx context.Context, startMs, endMs int64) ([]*orders.Order, error) {
	var out []*orders.Order
	for _, o := range r.byID {
		if o.CreatedAtMs >= startMs && o.CreatedAtMs <= endMs {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) DeleteByIDs(ctx context.Context, ids []id.ID) error {
	for _, orderID := range ids {
		delete(r.byID, orderID)
	}
	return nil
}

type fakeReportRepo struct {
	byDate map[businessday.Date]*reports.DayReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{byDate: make(map[businessday.Date]*reports.DayReport)}
}

func (r *fakeReportRepo) Get(ctx context.Context, date businessday.Date) (*reports.DayReport, error) {
	return r.byDate[date], nil
}

func (r *fakeReportRepo) Put(ctx context.Context, report *reports.DayReport) error {
	r.byDate[report.Date] = report
	return nil
}

func (r *fakeReportRepo) ListRange(ctx context.Context, start, end businessday.Date) ([]*reports.DayReport, error) {
	var out []*reports.DayReport
	for _, rep := range r.byDate {
		if !rep.Date.Before(start) && !end.Before(rep.Date) {
			out = append(out, rep)
		}
	}
	return out, nil
}

type fakeCounterStore struct {
	entry *numbering.Counter
}

func (f *fakeCounterStore) Get(ctx context.Context) (*numbering.Counter, error) {
	if f.entry == nil {
		return nil, nil
	}
	cp := *f.entry
	return &cp, nil
}

func (f *fakeCounterStore) Put(ctx context.Context, c numbering.Counter) error {
	f.entry = &c
	return nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// --- helpers ---

func orderTypePtr(t orders.OrderType) *orders.OrderType { return &t }

func makeOrder(number int, createdAt time.Time, method orders.PaymentMethod, otype *orders.OrderType, lines ...orders.Line) *orders.Order {
	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return &orders.Order{
		BaseDocument:  entity.NewBaseDocument(),
		ShortID:       id.NewShort(),
		Number:        number,
		CreatedAtMs:   createdAt.UnixMilli(),
		Lines:         lines,
		TotalAmount:   total,
		Status:        orders.StatusCompleted,
		PaymentMethod: method,
		OrderType:     otype,
	}
}

type fixture struct {
	svc       *Service
	orders    *fakeOrderRepo
	reports   *fakeReportRepo
	counter   *fakeCounterStore
	numbering *numbering.Service
	clock     fixedClock
}

func newFixture(now time.Time) *fixture {
	orderRepo := newFakeOrderRepo()
	reportRepo := newFakeReportRepo()
	counter := &fakeCounterStore{}
	clock := fixedClock{t: now}
	num := numbering.NewService(counter, noopTxManager{}, clock)
	svc := NewService(orderRepo, reportRepo, num, noopTxManager{}, clock, time.UTC)
	return &fixture{
		svc:       svc,
		orders:    orderRepo,
		reports:   reportRepo,
		counter:   counter,
		numbering: num,
		clock:     clock,
	}
}

var (
	colaID   = id.New()
	burgerID = id.New()
)

func colaLine(qty int) orders.Line {
	return orders.Line{ItemID: colaID, Name: "Cola", Quantity: qty, UnitPrice: types.MustMoney("2.5")}
}

func burgerLine(qty int) orders.Line {
	return orders.Line{ItemID: burgerID, Name: "Burger", Quantity: qty, UnitPrice: types.MustMoney("8")}
}

// seedScenario stores three completed orders totalling 23.50:
// #1 Cola x2 CASH eat-in, #2 Cola + Burger QR to-go, #3 Burger CASH eat-in.
func seedScenario(f *fixture, day time.Time) {
	ctx := context.Background()
	_ = f.orders.Create(ctx, makeOrder(1, day.Add(10*time.Hour), orders.PaymentCash, orderTypePtr(orders.TypeEatIn), colaLine(2)))
	_ = f.orders.Create(ctx, makeOrder(2, day.Add(12*time.Hour), orders.PaymentQRCode, orderTypePtr(orders.TypeToGo), colaLine(1), burgerLine(1)))
	_ = f.orders.Create(ctx, makeOrder(3, day.Add(20*time.Hour), orders.PaymentCash, orderTypePtr(orders.TypeEatIn), burgerLine(1)))
}

func findItem(t *testing.T, items []reports.RunItem, name string) reports.RunItem {
	t.Helper()
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not in run", name)
	return reports.RunItem{}
}

// --- tests ---

func TestFinalizeDay_AggregatesScenario(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	f := newFixture(day.Add(22 * time.Hour))
	seedScenario(f, day)

	run, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	assert.Equal(t, 3, run.OrderCount)
	assert.True(t, run.Total.Equal(types.MustMoney("23.50")), "total = %s", run.Total)
	assert.True(t, run.TotalsByPayment[orders.PaymentCash].Equal(types.MustMoney("13.00")))
	assert.True(t, run.TotalsByPayment[orders.PaymentQRCode].Equal(types.MustMoney("10.50")))
	assert.True(t, run.TotalsByPayment[orders.PaymentCard].IsZero())
	assert.True(t, run.TotalsByPayment[orders.PaymentOther].IsZero())
	assert.True(t, run.TotalsByOrderType[orders.TypeEatIn].Equal(types.MustMoney("13.00")))
	assert.True(t, run.TotalsByOrderType[orders.TypeToGo].Equal(types.MustMoney("10.50")))

	require.Len(t, run.Items, 2)
	cola := findItem(t, run.Items, "Cola")
	assert.Equal(t, 3, cola.Quantity)
	assert.True(t, cola.Total.Equal(types.MustMoney("7.50")))
	burger := findItem(t, run.Items, "Burger")
	assert.Equal(t, 2, burger.Quantity)
	assert.True(t, burger.Total.Equal(types.MustMoney("16.00")))

	require.Len(t, run.Orders, 3)
	for _, summary := range run.Orders {
		assert.NotEmpty(t, summary.Items, "summaries keep line snapshots")
	}
}

func TestFinalizeDay_DrainsLiveOrders(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	f := newFixture(day.Add(22 * time.Hour))
	seedScenario(f, day)

	// An order from the next day must survive the drain.
	nextDay := makeOrder(1, day.Add(25*time.Hour), orders.PaymentCard, nil, colaLine(1))
	require.NoError(t, f.orders.Create(context.Background(), nextDay))

	_, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	require.Len(t, f.orders.byID, 1)
	assert.Contains(t, f.orders.byID, nextDay.ID)
}

func TestFinalizeDay_ResetsCounter(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	f := newFixture(day.Add(22 * time.Hour))
	seedScenario(f, day)

	for i := 0; i < 3; i++ {
		_, err := f.numbering.Next(context.Background())
		require.NoError(t, err)
	}

	_, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	assert.Equal(t, &numbering.Counter{Date: "2025-06-14", Counter: 0}, f.counter.entry)

	n, err := f.numbering.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFinalizeDay_AppendsRuns(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	f := newFixture(day.Add(14 * time.Hour))
	seedScenario(f, day)

	first, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	// New order placed after the first close of the same day.
	late := makeOrder(1, day.Add(23*time.Hour), orders.PaymentCard, orderTypePtr(orders.TypeToGo), burgerLine(1))
	require.NoError(t, f.orders.Create(context.Background(), late))

	second, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	report := f.reports.byDate["2025-06-14"]
	require.NotNil(t, report)
	require.Len(t, report.Runs, 2)

	// Earlier run is untouched.
	assert.Equal(t, first.OrderCount, report.Runs[0].OrderCount)
	assert.True(t, report.Runs[0].Total.Equal(types.MustMoney("23.50")))
	assert.Equal(t, 1, second.OrderCount)
	assert.True(t, report.Runs[1].Total.Equal(types.MustMoney("8.00")))
}

func TestFinalizeDay_EmptyDayAppendsZeroRun(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC))

	run, err := f.svc.FinalizeDay(context.Background(), "2025-06-14")
	require.NoError(t, err)

	assert.Equal(t, 0, run.OrderCount)
	assert.True(t, run.Total.IsZero())
	assert.Empty(t, run.Items)
	require.Len(t, f.reports.byDate["2025-06-14"].Runs, 1)
}

func TestFinalizeDay_DefaultsToToday(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	f := newFixture(day.Add(22 * time.Hour))
	seedScenario(f, day)

	run, err := f.svc.FinalizeDay(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, run.OrderCount)
	assert.NotNil(t, f.reports.byDate["2025-06-14"])
}

func TestFinalizeDay_RejectsBadDate(t *testing.T) {
	f := newFixture(time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC))

	_, err := f.svc.FinalizeDay(context.Background(), "14.06.2025")
	assert.Error(t, err)
}

func TestBuildRun_SplitsOnUnitPrice(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	// Same item sold at two prices ends up as two rows.
	before := makeOrder(1, day.Add(10*time.Hour), orders.PaymentCash, nil, colaLine(2))
	repriced := makeOrder(2, day.Add(12*time.Hour), orders.PaymentCash, nil,
		orders.Line{ItemID: colaID, Name: "Cola", Quantity: 1, UnitPrice: types.MustMoney("3.0")})

	run := BuildRun([]*orders.Order{before, repriced}, day.Add(22*time.Hour).UnixMilli())

	require.Len(t, run.Items, 2)
	assert.Equal(t, 2, run.Items[0].Quantity)
	assert.True(t, run.Items[0].UnitPrice.Equal(types.MustMoney("2.5")))
	assert.Equal(t, 1, run.Items[1].Quantity)
	assert.True(t, run.Items[1].UnitPrice.Equal(types.MustMoney("3.0")))
}

func TestBuildRun_MissingPaymentMethodCountsAsOther(t *testing.T) {
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	o := makeOrder(1, day.Add(10*time.Hour), "", nil, colaLine(1))

	run := BuildRun([]*orders.Order{o}, day.Add(22*time.Hour).UnixMilli())

	assert.True(t, run.TotalsByPayment[orders.PaymentOther].Equal(types.MustMoney("2.5")))
}
