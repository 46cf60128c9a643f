package commute

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrMissingPoint is returned when a computation is requested before both
// endpoints are chosen.
var ErrMissingPoint = errors.New("both start and end points are required")

// Planner holds the endpoints picked for a commute and the last totals
// computed from them. Changing an endpoint or the frequency makes the
// previous totals stale.
type Planner struct {
	start       *GeoPoint
	end         *GeoPoint
	daysPerWeek int

	result *Totals
}

// NewPlanner creates a planner with the given commuting days per week.
func NewPlanner(daysPerWeek int) *Planner {
	return &Planner{daysPerWeek: daysPerWeek}
}

func (p *Planner) SetStart(pt GeoPoint) {
	p.start = &pt
	p.result = nil
}

func (p *Planner) SetEnd(pt GeoPoint) {
	p.end = &pt
	p.result = nil
}

func (p *Planner) ClearStart() {
	p.start = nil
	p.result = nil
}

func (p *Planner) ClearEnd() {
	p.end = nil
	p.result = nil
}

func (p *Planner) SetDaysPerWeek(days int) {
	p.daysPerWeek = days
	p.result = nil
}

// Ready reports whether both endpoints are set.
func (p *Planner) Ready() bool {
	return p.start != nil && p.end != nil
}

// Compute calculates totals for the current endpoints and frequency.
func (p *Planner) Compute() (Totals, error) {
	if !p.Ready() {
		return Totals{}, ErrMissingPoint
	}
	if err := Validate(*p.start); err != nil {
		return Totals{}, fmt.Errorf("start: %w", err)
	}
	if err := Validate(*p.end); err != nil {
		return Totals{}, fmt.Errorf("end: %w", err)
	}

	totals, err := ComputeTotals(Distance(*p.start, *p.end), p.daysPerWeek)
	if err != nil {
		return Totals{}, err
	}

	log.Debug().
		Stringer("start", p.start).
		Stringer("end", p.end).
		Int("oneWayKm", totals.OneWayKm).
		Int("monthlyKm", totals.MonthlyKm).
		Msg("commute computed")

	p.result = &totals
	return totals, nil
}

// Result returns the last computed totals, or false if none exist or they
// are stale.
func (p *Planner) Result() (Totals, bool) {
	if p.result == nil {
		return Totals{}, false
	}
	return *p.result, true
}
