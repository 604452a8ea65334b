package numbering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/core/businessday"
)

// fakeStore keeps the counter record in memory.
type fakeStore struct {
	entry *Counter
	puts  int
}

func (f *fakeStore) Get(ctx context.Context) (*Counter, error) {
	if f.entry == nil {
		return nil, nil
	}
	cp := *f.entry
	return &cp, nil
}

func (f *fakeStore) Put(ctx context.Context, c Counter) error {
	f.entry = &c
	f.puts++
	return nil
}

// noopTxManager runs the function directly; store operations are already
// atomic in memory.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type adjustableClock struct {
	t time.Time
}

func (c *adjustableClock) Now() time.Time { return c.t }

func newTestService(t time.Time) (*Service, *fakeStore, *adjustableClock) {
	store := &fakeStore{}
	clock := &adjustableClock{t: t}
	return NewService(store, noopTxManager{}, clock), store, clock
}

func TestNext_StartsAtOne(t *testing.T) {
	svc, store, _ := newTestService(time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC))

	n, err := svc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NotNil(t, store.entry)
	assert.Equal(t, businessday.Date("2025-06-14"), store.entry.Date)
}

func TestNext_IsMonotonicWithinDay(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		n, err := svc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestNext_RollsOverAtMidnight(t *testing.T) {
	svc, store, clock := newTestService(time.Date(2025, 6, 14, 23, 55, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Next(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.entry.Counter)

	// First request after midnight starts a fresh sequence.
	clock.t = time.Date(2025, 6, 15, 0, 5, 0, 0, time.UTC)
	n, err := svc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, businessday.Date("2025-06-15"), store.entry.Date)
}

func TestReset(t *testing.T) {
	t.Run("explicit date", func(t *testing.T) {
		svc, store, _ := newTestService(time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC))

		require.NoError(t, svc.Reset(context.Background(), "2025-06-13"))
		assert.Equal(t, &Counter{Date: "2025-06-13", Counter: 0}, store.entry)
	})

	t.Run("defaults to today", func(t *testing.T) {
		svc, store, _ := newTestService(time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC))

		require.NoError(t, svc.Reset(context.Background(), ""))
		assert.Equal(t, &Counter{Date: "2025-06-14", Counter: 0}, store.entry)
	})

	t.Run("next after reset is one", func(t *testing.T) {
		svc, _, _ := newTestService(time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC))
		ctx := context.Background()

		for i := 0; i < 4; i++ {
			_, err := svc.Next(ctx)
			require.NoError(t, err)
		}
		require.NoError(t, svc.Reset(ctx, ""))

		n, err := svc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestCurrent(t *testing.T) {
	svc, _, clock := newTestService(time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	n, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = svc.Next(ctx)
	require.NoError(t, err)
	_, err = svc.Next(ctx)
	require.NoError(t, err)

	n, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Yesterday's counter reads as zero today.
	clock.t = clock.t.AddDate(0, 0, 1)
	n, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
