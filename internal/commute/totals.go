package commute

import (
	"errors"
	"fmt"
	"math"
)

const (
	// WeeksPerMonth is the average number of weeks in a month.
	WeeksPerMonth = 4.33

	MinDaysPerWeek = 1
	MaxDaysPerWeek = 7
)

var (
	// ErrInvalidDaysPerWeek is returned when days per week is outside [1,7].
	ErrInvalidDaysPerWeek = errors.New("days per week must be between 1 and 7")

	// ErrNegativeDistance is returned when a one-way distance is below zero.
	ErrNegativeDistance = errors.New("one-way distance must not be negative")
)

// Totals holds the commute figures derived from a one-way distance.
type Totals struct {
	OneWayKm    int `json:"oneWayKm"`
	RoundTripKm int `json:"roundTripKm"`
	DaysPerWeek int `json:"daysPerWeek"`
	WeeklyKm    int `json:"weeklyKm"`
	MonthlyKm   int `json:"monthlyKm"`
}

// ComputeTotals derives round-trip, weekly and monthly distances from a
// one-way distance. It has no side effects.
func ComputeTotals(oneWayKm, daysPerWeek int) (Totals, error) {
	if oneWayKm < 0 {
		return Totals{}, fmt.Errorf("%w: %d", ErrNegativeDistance, oneWayKm)
	}
	if daysPerWeek < MinDaysPerWeek || daysPerWeek > MaxDaysPerWeek {
		return Totals{}, fmt.Errorf("%w: got %d", ErrInvalidDaysPerWeek, daysPerWeek)
	}

	roundTrip := oneWayKm * 2
	weekly := roundTrip * daysPerWeek

	return Totals{
		OneWayKm:    oneWayKm,
		RoundTripKm: roundTrip,
		DaysPerWeek: daysPerWeek,
		WeeklyKm:    weekly,
		MonthlyKm:   int(math.Round(float64(weekly) * WeeksPerMonth)),
	}, nil
}
