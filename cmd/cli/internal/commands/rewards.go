package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/client"
	"github.com/wolfeidau/ecotrack/internal/session"
)

type RedeemCmd struct {
	ProductID int `arg:"" optional:"" help:"Product to redeem; omit to list the catalog"`
}

func (r *RedeemCmd) Run(ctx context.Context, globals *Globals) error {
	if r.ProductID == 0 {
		printCatalog(globals)
		return nil
	}

	product, ok := client.FindProduct(r.ProductID)
	if !ok {
		return fmt.Errorf("unknown product %d", r.ProductID)
	}

	store, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	balance := store.Current().User.SustainabilityScore
	res, err := api.Redeem(ctx, product, balance)
	if err != nil {
		return apiError("redeem "+product.Name, err)
	}

	remaining := res.RemainingPoints.Float64()
	if _, err := store.SaveProfile(ctx, session.ProfileUpdate{SustainabilityScore: float64Ptr(remaining)}); err != nil {
		log.Warn().Err(err).Msg("failed to update point balance")
	}

	out := globals.out()
	fmt.Fprintf(out, "Redeemed %s. Remaining points: %.0f\n", product.Name, remaining)
	fmt.Fprintf(out, "Check %s for the confirmation form.\n", store.Current().User.Email)
	return nil
}

func printCatalog(globals *Globals) {
	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tCATEGORY\tECO SCORE\tPOINTS")
	for _, p := range client.Catalog() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Category, p.EcoScore, p.PricePoints)
	}
	_ = w.Flush()
}
