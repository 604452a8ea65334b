package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/entity"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/catalogs/menuitem"
	"tavolo/internal/domain/numbering"
)

// --- fakes ---

// fakeRepo stores copies and enforces the same optimistic-lock contract
// as the SQL repo: an update only lands when the caller's version
// matches the stored row, and the bump happens in the store.
type fakeRepo struct {
	byID map[id.ID]*Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*Order)}
}

func (r *fakeRepo) Create(ctx context.Context, o *Order) error {
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.byID[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, o *Order) error {
	stored, ok := r.byID[o.ID]
	if !ok || stored.Version != o.Version {
		return apperror.NewConcurrentModification("order", o.ID)
	}
	cp := *o
	cp.Version++
	r.byID[o.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, orderID id.ID) error {
	delete(r.byID, orderID)
	return nil
}

func (r *fakeRepo) ListByRange(ctx context.Context, startMs, endMs int64) ([]*Order, error) {
	var out []*Order
	for _, o := range r.byID {
		if o.CreatedAtMs >= startMs && o.CreatedAtMs <= endMs {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteByIDs(ctx context.Context, ids []id.ID) error {
	for _, orderID := range ids {
		delete(r.byID, orderID)
	}
	return nil
}

// fakeItemRepo serves only the lookups checkout needs; the embedded
// interface panics on anything else.
type fakeItemRepo struct {
	menuitem.Repository
	items map[id.ID]*menuitem.MenuItem
}

func (r *fakeItemRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*menuitem.MenuItem, error) {
	out := make(map[id.ID]*menuitem.MenuItem, len(ids))
	for _, itemID := range ids {
		if item, ok := r.items[itemID]; ok {
			out[itemID] = item
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

var testNow = time.Date(2026, 8, 22, 12, 30, 0, 0, time.UTC)

func newMenuItem(name string, price string, variants ...menuitem.Variant) *menuitem.MenuItem {
	item := menuitem.NewMenuItem("", name, types.MustMoney(price), id.New())
	item.ID = id.New()
	item.Variants = variants
	return item
}

func newTestService(repo *fakeRepo, items ...*menuitem.MenuItem) *Service {
	byID := make(map[id.ID]*menuitem.MenuItem)
	for _, it := range items {
		byID[it.ID] = it
	}
	clock := fixedClock{t: testNow}
	numberingSvc := numbering.NewService(&fakeCounterStore{}, noopTxManager{}, clock)
	return NewService(repo, &fakeItemRepo{items: byID}, numberingSvc, noopTxManager{}, clock, time.UTC)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

// --- tests ---

func TestCheckout_SnapshotsPricesAndTotal(t *testing.T) {
	cola := newMenuItem("Cola", "2.50", menuitem.Variant{Label: "0.5l", PriceDelta: types.MustMoney("0.50")})
	burger := newMenuItem("Cheeseburger", "8.00")
	repo := newFakeRepo()
	svc := newTestService(repo, cola, burger)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{
			{ItemID: cola.ID, Variant: "0.5l", Quantity: 2},
			{ItemID: burger.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Cola", order.Lines[0].Name)
	assert.True(t, order.Lines[0].UnitPrice.Equal(types.MustMoney("3.00")))
	assert.True(t, order.Lines[1].UnitPrice.Equal(types.MustMoney("8.00")))
	assert.True(t, order.TotalAmount.Equal(types.MustMoney("14.00")))

	assert.Equal(t, 1, order.Number)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentOther, order.PaymentMethod)
	assert.NotEmpty(t, order.ShortID)
	assert.Equal(t, testNow.UnixMilli(), order.CreatedAtMs)

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestCheckout_UnknownVariantFallsBackToBasePrice(t *testing.T) {
	cola := newMenuItem("Cola", "2.50", menuitem.Variant{Label: "0.5l", PriceDelta: types.MustMoney("0.50")})
	svc := newTestService(newFakeRepo(), cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Variant: "2l", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(types.MustMoney("2.50")))
}

func TestCheckout_EmptyDraft(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Checkout(context.Background(), Draft{})
	assertCode(t, err, apperror.CodeEmptyOrder)
}

func TestCheckout_NonPositiveQuantity(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	svc := newTestService(newFakeRepo(), cola)

	_, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 0}},
	})
	assertCode(t, err, apperror.CodeValidation)
}

func TestCheckout_UnknownItem(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: id.New(), Quantity: 1}},
	})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestCheckout_DisabledItemRejected(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	cola.IsEnabled = false
	svc := newTestService(newFakeRepo(), cola)

	_, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	assertCode(t, err, apperror.CodeValidation)
}

func TestCheckout_NumbersIncrementWithinDay(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	svc := newTestService(newFakeRepo(), cola)

	draft := Draft{Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}}}

	first, err := svc.Checkout(context.Background(), draft)
	require.NoError(t, err)
	second, err := svc.Checkout(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
}

func TestMarkPaid(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	repo := newFakeRepo()
	svc := newTestService(repo, cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), order.ID, PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, paid.Status)
	assert.Equal(t, PaymentCash, paid.PaymentMethod)

	// Total stays as snapshotted at checkout
	assert.True(t, paid.TotalAmount.Equal(types.MustMoney("2.50")))
}

func TestLifecycle_VersionAdvancesOncePerMutation(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	repo := newFakeRepo()
	svc := newTestService(repo, cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, order.Version)

	// Each mutation reloads the order; the stored version must match
	// what was loaded or the write is lost to the optimistic lock.
	table := "4"
	updated, err := svc.Update(context.Background(), order.ID, Patch{Table: &table})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	paid, err := svc.MarkPaid(context.Background(), order.ID, PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, 3, paid.Version)

	stored, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Version)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestMarkPaid_InvalidMethod(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.MarkPaid(context.Background(), id.New(), PaymentMethod("BARTER"))
	assertCode(t, err, apperror.CodeValidation)
}

func TestMarkPaid_AlreadyPaid(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	svc := newTestService(newFakeRepo(), cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), order.ID, PaymentCash)
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), order.ID, PaymentCard)
	assertCode(t, err, apperror.CodeOrderAlreadyPaid)
}

func TestCancel_ThenModifyRejected(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	svc := newTestService(newFakeRepo(), cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = svc.MarkPaid(context.Background(), order.ID, PaymentCash)
	assertCode(t, err, apperror.CodeOrderCancelled)
}

func TestUpdate_PatchesEditableFields(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	svc := newTestService(newFakeRepo(), cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	versionBefore := order.Version

	table := "12"
	eatIn := TypeEatIn
	updated, err := svc.Update(context.Background(), order.ID, Patch{
		OrderType: &eatIn,
		Table:     &table,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.OrderType)
	assert.Equal(t, TypeEatIn, *updated.OrderType)
	require.NotNil(t, updated.Table)
	assert.Equal(t, "12", *updated.Table)
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("2.50")))
	assert.Equal(t, versionBefore+1, updated.Version)
}

func TestListByDate_InvalidDate(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.ListByDate(context.Background(), "not-a-date")
	assertCode(t, err, apperror.CodeValidation)
}

func TestListByDate_FiltersByDay(t *testing.T) {
	cola := newMenuItem("Cola", "2.50")
	repo := newFakeRepo()
	svc := newTestService(repo, cola)

	order, err := svc.Checkout(context.Background(), Draft{
		Lines: []DraftLine{{ItemID: cola.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// An order from the previous day must not show up
	stale := &Order{
		BaseDocument: entity.NewBaseDocument(),
		ShortID:      id.NewShort(),
		Number:       7,
		CreatedAtMs:  time.Date(2026, 8, 21, 23, 0, 0, 0, time.UTC).UnixMilli(),
		Lines:        order.Lines,
		TotalAmount:  order.TotalAmount,
		Status:       StatusCompleted,
	}
	require.NoError(t, repo.Create(context.Background(), stale))

	listed, err := svc.ListByDate(context.Background(), "2026-08-22")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)
}
