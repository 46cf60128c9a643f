package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ecotrack/internal/client"
)

type PredictCmd struct {
	LifestyleFlags `embed:""`
	Weeks          int `help:"Weeks of trend to project" default:"4"`
}

func (p *PredictCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	life, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	var oneWay, weekly float64
	if life.commute != nil {
		oneWay = float64(life.commute.OneWayKm)
		weekly = float64(life.commute.WeeklyKm)
	}
	req := client.NewPredictRequest(life.request, oneWay, weekly)

	pred, err := api.Predict(ctx, req)
	if err != nil {
		return apiError("predict footprint", err)
	}

	out := globals.out()
	fmt.Fprintf(out, "Predicted: %.1f %s (range %.1f - %.1f, confidence %.0f%%)\n",
		pred.Prediction.Float64(), pred.Unit, pred.LowerBound.Float64(), pred.UpperBound.Float64(), pred.Confidence.Float64())

	if info, err := api.ModelInfo(ctx); err == nil && info.MeanFootprint > 0 {
		diff := pred.Prediction.Float64() - info.MeanFootprint.Float64()
		fmt.Fprintf(out, "Versus average: %+.1f kg\n", diff)
	} else if err != nil {
		log.Debug().Err(err).Msg("model info unavailable")
	}

	if len(pred.Breakdown) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tKG CO2/WEEK")
		for _, k := range slices.Sorted(maps.Keys(pred.Breakdown)) {
			fmt.Fprintf(w, "%s\t%.1f\n", k, pred.Breakdown[k].Float64())
		}
		_ = w.Flush()
	}

	trend, err := api.WeeklyTrend(ctx, req, p.Weeks)
	if err != nil {
		// the prediction already succeeded
		log.Warn().Err(err).Msg("weekly trend unavailable")
		return nil
	}

	if len(trend) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WEEK\tPREDICTED\tLOWER\tUPPER")
		for _, t := range trend {
			fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\n", t.Week, t.Predicted.Float64(), t.LowerBound.Float64(), t.UpperBound.Float64())
		}
		_ = w.Flush()
	}

	return nil
}

type ModelCmd struct {
	Info  ModelInfoCmd  `cmd:"" default:"1" help:"Show details of the trained model"`
	Train ModelTrainCmd `cmd:"" help:"Retrain the prediction model"`
}

type ModelInfoCmd struct{}

func (m *ModelInfoCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	info, err := api.ModelInfo(ctx)
	if errors.Is(err, client.ErrPredictionUnavailable) {
		fmt.Fprintln(globals.out(), "No trained model available. Run `ecotrack model train`.")
		return nil
	}
	if err != nil {
		return apiError("fetch model info", err)
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	for _, k := range slices.Sorted(maps.Keys(info.Extra)) {
		fmt.Fprintf(w, "%s:\t%v\n", k, info.Extra[k])
	}
	return w.Flush()
}

type ModelTrainCmd struct{}

func (m *ModelTrainCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	metrics, err := api.TrainModel(ctx)
	if err != nil {
		return apiError("train model", err)
	}

	fmt.Fprintf(globals.out(), "Model trained. R² score: %.3f, MAE: %.2f kg CO2/week\n",
		metrics.TestR2.Float64(), metrics.TestMAE.Float64())
	return nil
}
