package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/wolfeidau/ecotrack/internal/commute"
	"github.com/wolfeidau/ecotrack/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type CommuteCmd struct {
	Start string `arg:"" help:"Start point as lat,lng"`
	End   string `arg:"" help:"End point as lat,lng"`
	Days  int    `help:"Commute days per week (1-7)" default:"5"`
}

func (c *CommuteCmd) Run(ctx context.Context, globals *Globals) error {
	totals, err := planCommute(ctx, c.Start, c.End, c.Days)
	if err != nil {
		return err
	}

	printCommute(globals, totals)
	return nil
}

// planCommute parses both endpoints and computes totals. Both points are
// required once either is given.
func planCommute(ctx context.Context, start, end string, days int) (commute.Totals, error) {
	planner := commute.NewPlanner(days)

	if start != "" {
		pt, err := commute.ParsePoint(start)
		if err != nil {
			return commute.Totals{}, fmt.Errorf("start: %w", err)
		}
		planner.SetStart(pt)
	}
	if end != "" {
		pt, err := commute.ParsePoint(end)
		if err != nil {
			return commute.Totals{}, fmt.Errorf("end: %w", err)
		}
		planner.SetEnd(pt)
	}

	totals, err := planner.Compute()
	recordCommute(ctx, err)
	if err != nil {
		if errors.Is(err, commute.ErrMissingPoint) {
			return commute.Totals{}, errors.New("both --start and --end are required to plan a commute")
		}
		return commute.Totals{}, err
	}

	return totals, nil
}

func recordCommute(ctx context.Context, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	telemetry.GetMetrics().CommuteComputationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", result)))
}

func printCommute(globals *Globals, t commute.Totals) {
	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "One way:\t%d km\n", t.OneWayKm)
	fmt.Fprintf(w, "Round trip:\t%d km\n", t.RoundTripKm)
	fmt.Fprintf(w, "Weekly (%d days):\t%d km\n", t.DaysPerWeek, t.WeeklyKm)
	fmt.Fprintf(w, "Monthly:\t%d km\n", t.MonthlyKm)
	_ = w.Flush()
}
