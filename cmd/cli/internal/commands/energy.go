package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/wolfeidau/ecotrack/internal/client"
)

type EnergyCmd struct {
	Solar      EnergySolarCmd      `cmd:"" help:"Estimate rooftop solar generation and savings"`
	Efficiency EnergyEfficiencyCmd `cmd:"" help:"Estimate savings from efficient appliances"`
	Ask        EnergyAskCmd        `cmd:"" help:"Ask the energy advisor a question"`
}

// AdviceFlags control the advisor call made after a calculator runs.
type AdviceFlags struct {
	Advice   bool   `help:"Ask the advisor about the result" default:"true" negatable:""`
	Question string `help:"Question to ask the advisor about the result"`
}

type EnergySolarCmd struct {
	RoofArea         float64 `help:"Roof area in square metres" default:"50"`
	Panels           int     `help:"Number of panels (overrides roof area when set)" default:"0"`
	Usage            float64 `help:"Monthly energy usage in kWh" default:"500"`
	SunHours         float64 `help:"Average sunlight hours per day (1-12)" default:"5"`
	Rate             float64 `help:"Electricity rate per kWh" default:"0.15"`
	InstallationCost float64 `help:"Installation cost" default:"10000"`

	AdviceFlags `embed:""`
}

func (s *EnergySolarCmd) Run(ctx context.Context, globals *Globals) error {
	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	est, err := api.SolarCalculator(ctx, client.SolarRequest{
		RoofArea:         s.RoofArea,
		PanelCount:       s.Panels,
		EnergyUsage:      s.Usage,
		SunHours:         s.SunHours,
		ElectricityRate:  s.Rate,
		InstallationCost: s.InstallationCost,
	})
	if err != nil {
		return apiError("calculate solar savings", err)
	}

	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Generation:\t%.0f kWh/month\n", est.EnergyGeneration.Monthly.Float64())
	fmt.Fprintf(w, "Savings:\t%.2f per year\n", est.Savings.Yearly.Float64())
	fmt.Fprintf(w, "CO2 reduction:\t%.0f kg/year\n", est.CO2Reduction.Float64())
	fmt.Fprintf(w, "Coverage:\t%.0f%%\n", est.CoveragePercent.Float64())
	fmt.Fprintf(w, "Panels needed:\t%.0f\n", est.PanelsNeeded.Float64())
	if est.PaybackTime > 0 {
		fmt.Fprintf(w, "Payback:\t%.1f years\n", est.PaybackTime.Float64())
	}
	_ = w.Flush()

	return s.AdviceFlags.ask(ctx, globals, api, client.CalculatorSolar, est.Raw)
}

type EnergyEfficiencyCmd struct {
	Appliance []string `help:"Appliance as type:currentW:efficientW:quantity (repeatable; defaults to a typical household)" placeholder:"TYPE:W:W:N"`
	Rate      float64  `help:"Electricity rate per kWh" default:"0.15"`

	AdviceFlags `embed:""`
}

func (e *EnergyEfficiencyCmd) Run(ctx context.Context, globals *Globals) error {
	appliances := client.DefaultAppliances()
	if len(e.Appliance) > 0 {
		appliances = make([]client.Appliance, 0, len(e.Appliance))
		for _, def := range e.Appliance {
			a, err := parseAppliance(def)
			if err != nil {
				return err
			}
			appliances = append(appliances, a)
		}
	}

	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	est, err := api.EfficiencyCalculator(ctx, client.EfficiencyRequest{
		Appliances:      appliances,
		ElectricityRate: e.Rate,
	})
	if err != nil {
		return apiError("calculate efficiency savings", err)
	}

	out := globals.out()
	fmt.Fprintf(out, "Saved per month: %.0f kWh, %.2f cost, %.1f kg CO2\n",
		est.TotalEnergySaved.Float64(), est.TotalCostSaved.Float64(), est.TotalCO2Saved.Float64())

	if len(est.Breakdown) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "APPLIANCE\tKWH/MO\tCOST/MO\tKG CO2/MO")
		for _, b := range est.Breakdown {
			fmt.Fprintf(w, "%s\t%.0f\t%.2f\t%.1f\n", b.Type, b.EnergySaved.Float64(), b.CostSaved.Float64(), b.CO2Saved.Float64())
		}
		_ = w.Flush()
	}

	return e.AdviceFlags.ask(ctx, globals, api, client.CalculatorEfficiency, est.Raw)
}

type EnergyAskCmd struct {
	Calculator string   `help:"Calculator the question is about" enum:"solar,efficiency" default:"solar"`
	Question   []string `arg:"" help:"Question for the energy advisor"`
}

func (a *EnergyAskCmd) Run(ctx context.Context, globals *Globals) error {
	question := strings.TrimSpace(strings.Join(a.Question, " "))
	if question == "" {
		return client.ErrEmptyContent
	}

	_, api, err := globals.signedIn(ctx)
	if err != nil {
		return err
	}

	advice, err := api.EnergyAdvice(ctx, client.AdviceRequest{
		CalculatorType: a.Calculator,
		UserQuestion:   question,
	})
	if err != nil {
		return apiError("reach the energy advisor", err)
	}

	fmt.Fprintln(globals.out(), advice)
	return nil
}

func (f AdviceFlags) ask(ctx context.Context, globals *Globals, api *client.Client, calculator string, results json.RawMessage) error {
	if !f.Advice && f.Question == "" {
		return nil
	}

	advice, err := api.EnergyAdvice(ctx, client.AdviceRequest{
		CalculatorType: calculator,
		Results:        results,
		UserQuestion:   strings.TrimSpace(f.Question),
	})
	if err != nil {
		return apiError("reach the energy advisor", err)
	}

	fmt.Fprintf(globals.out(), "\nAdvice:\n%s\n", advice)
	return nil
}

// parseAppliance reads type:currentW:efficientW:quantity.
func parseAppliance(def string) (client.Appliance, error) {
	parts := strings.Split(def, ":")
	if len(parts) != 4 {
		return client.Appliance{}, fmt.Errorf("invalid appliance %q: want type:currentW:efficientW:quantity", def)
	}

	current, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return client.Appliance{}, fmt.Errorf("invalid appliance %q: current usage: %w", def, err)
	}
	efficient, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return client.Appliance{}, fmt.Errorf("invalid appliance %q: efficient usage: %w", def, err)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return client.Appliance{}, fmt.Errorf("invalid appliance %q: quantity: %w", def, err)
	}

	return client.Appliance{
		Type:           strings.TrimSpace(parts[0]),
		CurrentUsage:   current,
		EfficientUsage: efficient,
		Quantity:       quantity,
	}, nil
}
