package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

type ClassifyCmd struct {
	Image string `arg:"" type:"existingfile" help:"Photo of the waste item"`
	All   bool   `help:"Show every candidate class"`
}

func (c *ClassifyCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Image)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	res, err := api.ClassifyWaste(ctx, c.Image, f)
	if err != nil {
		return apiError("classify image", err)
	}

	out := globals.out()
	verdict := "Not recyclable"
	if res.Prediction.Recyclable {
		verdict = "Recyclable"
	}
	fmt.Fprintf(out, "%s: %s (%.1f%% confidence)\n", verdict, res.Prediction.Class, res.Prediction.Confidence.Float64())

	if c.All && len(res.AllPredictions) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tCONFIDENCE")
		for _, p := range res.AllPredictions {
			fmt.Fprintf(w, "%s\t%.1f%%\n", p.Class, p.Confidence.Float64())
		}
		_ = w.Flush()
	}

	return nil
}
