package commute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	t.Run("ten km five days", func(t *testing.T) {
		totals, err := ComputeTotals(10, 5)
		require.NoError(t, err)
		assert.Equal(t, Totals{
			OneWayKm:    10,
			RoundTripKm: 20,
			DaysPerWeek: 5,
			WeeklyKm:    100,
			MonthlyKm:   433,
		}, totals)
	})

	t.Run("same inputs give same outputs", func(t *testing.T) {
		first, err := ComputeTotals(17, 3)
		require.NoError(t, err)
		second, err := ComputeTotals(17, 3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("frequency bounds", func(t *testing.T) {
		one, err := ComputeTotals(10, 1)
		require.NoError(t, err)
		seven, err := ComputeTotals(10, 7)
		require.NoError(t, err)

		assert.Equal(t, 20, one.WeeklyKm)
		assert.Equal(t, 7*one.WeeklyKm, seven.WeeklyKm)
		assert.Equal(t, 87, one.MonthlyKm)
		assert.Equal(t, 606, seven.MonthlyKm)
	})

	t.Run("zero distance", func(t *testing.T) {
		totals, err := ComputeTotals(0, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, totals.MonthlyKm)
	})

	t.Run("out of range frequency", func(t *testing.T) {
		for _, days := range []int{-1, 0, 8} {
			_, err := ComputeTotals(10, days)
			require.ErrorIs(t, err, ErrInvalidDaysPerWeek, "days=%d", days)
		}
	})

	t.Run("negative distance", func(t *testing.T) {
		_, err := ComputeTotals(-3, 5)
		require.ErrorIs(t, err, ErrNegativeDistance)
	})
}

func TestPlanner(t *testing.T) {
	start := GeoPoint{Latitude: 24.8607, Longitude: 67.0011}
	end := GeoPoint{Latitude: 24.9, Longitude: 67.05}

	t.Run("requires both points", func(t *testing.T) {
		p := NewPlanner(5)
		_, err := p.Compute()
		require.ErrorIs(t, err, ErrMissingPoint)

		p.SetStart(start)
		assert.False(t, p.Ready())
		_, err = p.Compute()
		require.ErrorIs(t, err, ErrMissingPoint)

		_, ok := p.Result()
		assert.False(t, ok)
	})

	t.Run("computes totals", func(t *testing.T) {
		p := NewPlanner(5)
		p.SetStart(start)
		p.SetEnd(end)
		require.True(t, p.Ready())

		totals, err := p.Compute()
		require.NoError(t, err)
		assert.Equal(t, 7, totals.OneWayKm)
		assert.Equal(t, 14, totals.RoundTripKm)
		assert.Equal(t, 70, totals.WeeklyKm)
		assert.Equal(t, 303, totals.MonthlyKm)

		result, ok := p.Result()
		require.True(t, ok)
		assert.Equal(t, totals, result)
	})

	t.Run("changing a point makes result stale", func(t *testing.T) {
		p := NewPlanner(5)
		p.SetStart(start)
		p.SetEnd(end)
		_, err := p.Compute()
		require.NoError(t, err)

		p.SetEnd(GeoPoint{Latitude: 25, Longitude: 67.1})
		_, ok := p.Result()
		assert.False(t, ok)

		_, err = p.Compute()
		require.NoError(t, err)
		p.ClearStart()
		_, ok = p.Result()
		assert.False(t, ok)
		_, err = p.Compute()
		require.ErrorIs(t, err, ErrMissingPoint)
	})

	t.Run("changing frequency makes result stale", func(t *testing.T) {
		p := NewPlanner(5)
		p.SetStart(start)
		p.SetEnd(end)
		_, err := p.Compute()
		require.NoError(t, err)

		p.SetDaysPerWeek(8)
		_, ok := p.Result()
		assert.False(t, ok)

		_, err = p.Compute()
		require.ErrorIs(t, err, ErrInvalidDaysPerWeek)
	})

	t.Run("rejects out of range point", func(t *testing.T) {
		p := NewPlanner(5)
		p.SetStart(GeoPoint{Latitude: 91})
		p.SetEnd(end)
		_, err := p.Compute()
		require.ErrorIs(t, err, ErrInvalidPoint)
	})
}
