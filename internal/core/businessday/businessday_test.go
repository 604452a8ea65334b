package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestFromTime_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	// 23:30 local is still the same day even though UTC has rolled over.
	late := time.Date(2025, 6, 14, 23, 30, 0, 0, loc)
	assert.Equal(t, Date("2025-06-14"), FromTime(late))

	// 00:10 local belongs to the next day even though UTC has not.
	early := time.Date(2025, 6, 15, 0, 10, 0, 0, loc)
	assert.Equal(t, Date("2025-06-15"), FromTime(early))
}

func TestToday(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	assert.Equal(t, Date("2025-03-01"), Today(clock))
}

func TestZoneClock_TodayStraddlesMidnight(t *testing.T) {
	// 03:30 UTC is still the previous evening five hours west.
	instant := fixedClock{t: time.Date(2026, 8, 23, 3, 30, 0, 0, time.UTC)}
	loc := time.FixedZone("UTC-5", -5*60*60)

	assert.Equal(t, Date("2026-08-23"), Today(instant))
	assert.Equal(t, Date("2026-08-22"), Today(ZoneClock{Clock: instant, Loc: loc}))
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := Parse("2025-06-14", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, Date("2025-06-14"), d)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := Parse("14/06/2025", time.UTC)
		assert.Error(t, err)
	})

	t.Run("rejects impossible date", func(t *testing.T) {
		_, err := Parse("2025-02-30", time.UTC)
		assert.Error(t, err)
	})
}

func TestRange_CoversWholeDayInclusive(t *testing.T) {
	startMs, endMs, err := Date("2025-06-14").Range(time.UTC)
	require.NoError(t, err)

	start := time.UnixMilli(startMs).UTC()
	end := time.UnixMilli(endMs).UTC()

	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 14, 23, 59, 59, 999_000_000, time.UTC), end)

	// The next day's first millisecond is outside the range.
	nextStartMs, _, err := Date("2025-06-15").Range(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, endMs+1, nextStartMs)
}

func TestAddDays_CrossesMonthBoundary(t *testing.T) {
	d, err := Date("2025-01-31").AddDays(1, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Date("2025-02-01"), d)
}

func TestDays(t *testing.T) {
	t.Run("inclusive range", func(t *testing.T) {
		days, err := Days("2025-06-13", "2025-06-15", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, []Date{"2025-06-13", "2025-06-14", "2025-06-15"}, days)
	})

	t.Run("single day", func(t *testing.T) {
		days, err := Days("2025-06-14", "2025-06-14", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, []Date{"2025-06-14"}, days)
	})

	t.Run("reversed range fails", func(t *testing.T) {
		_, err := Days("2025-06-15", "2025-06-14", time.UTC)
		assert.Error(t, err)
	})
}
