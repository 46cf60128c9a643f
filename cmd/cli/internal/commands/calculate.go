package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/client"
	"github.com/wolfeidau/ecotrack/internal/session"
)

type CalculateCmd struct {
	LifestyleFlags `embed:""`
}

func (c *CalculateCmd) Run(ctx context.Context, globals *Globals) error {
	store, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	life, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if life.commute != nil {
		printCommute(globals, *life.commute)
		fmt.Fprintln(globals.out())
	}

	res, err := api.Calculate(ctx, life.request)
	if err != nil {
		return apiError("calculate footprint", err)
	}

	printFootprint(globals, res)

	footprint := res.TotalCarbon.Float64()
	if _, err := store.SaveProfile(ctx, session.ProfileUpdate{CarbonFootprint: &footprint}); err != nil {
		log.Warn().Err(err).Msg("failed to record footprint on profile")
	}

	return nil
}

func printFootprint(globals *Globals, res *client.CalculateResult) {
	out := globals.out()
	fmt.Fprintf(out, "Total: %.1f kg CO2/month\n\n", res.TotalCarbon.Float64())

	if len(res.Breakdown.CategoryData) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tKG CO2")
		for _, cat := range res.Breakdown.CategoryData {
			fmt.Fprintf(w, "%s\t%.1f\n", cat.Category, cat.Carbon.Float64())
		}
		_ = w.Flush()
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, rec := range res.Recommendations {
			fmt.Fprintf(out, "  - %s: %s", rec.Title, rec.Description)
			if rec.Savings != "" {
				fmt.Fprintf(out, " (saves %s)", rec.Savings)
			}
			fmt.Fprintln(out)
		}
	}
}

type HistoryCmd struct {
	Limit int `help:"Number of months to show (0 for all)" default:"6"`
}

func (h *HistoryCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	entries, err := api.History(ctx)
	if err != nil {
		return apiError("fetch history", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(globals.out(), "No footprint history yet.")
		return nil
	}
	if h.Limit > 0 && len(entries) > h.Limit {
		entries = entries[:h.Limit]
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tKG CO2")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%.1f\n", e.Month, e.TotalCarbon.Float64())
	}
	return w.Flush()
}
