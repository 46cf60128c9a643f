package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wolfeidau/ecotrack/internal/client"
	"github.com/wolfeidau/ecotrack/internal/commute"
	"gopkg.in/yaml.v3"
)

// LifestyleFlags collect the calculator inputs shared by calculate and
// predict. A profile file provides the base; flags override it.
type LifestyleFlags struct {
	Profile     string  `help:"YAML/JSON lifestyle profile file" type:"existingfile"`
	Start       string  `help:"Commute start as lat,lng"`
	End         string  `help:"Commute end as lat,lng"`
	Days        int     `help:"Commute days per week" default:"5"`
	Distance    float64 `help:"Weekly travel distance in km, used when no commute is given"`
	Vehicle     string  `help:"Vehicle type (car, motorcycle, bus, train, bicycle)"`
	Fuel        string  `help:"Fuel type (petrol, diesel, electric, hybrid)"`
	Energy      float64 `help:"Monthly electricity use in kWh"`
	Diet        string  `help:"Diet type (vegan, vegetarian, pescatarian, omnivore)"`
	FoodSource  string  `help:"Where food is sourced (local, mixed, imported)"`
	FoodType    string  `help:"Food type (organic, conventional)"`
	WasteType   string  `help:"Waste handling (recycled, mixed, landfill)"`
	WasteAmount float64 `help:"Weekly waste in kg"`
}

// lifestyle is the resolved calculator input and, when a commute was given,
// its totals.
type lifestyle struct {
	request client.CalculateRequest
	commute *commute.Totals
}

func (f *LifestyleFlags) resolve(ctx context.Context) (*lifestyle, error) {
	var req client.CalculateRequest
	if f.Profile != "" {
		loaded, err := loadProfile(f.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		req = *loaded
	}

	if f.Vehicle != "" {
		req.Transport.VehicleType = f.Vehicle
	}
	if f.Fuel != "" {
		req.Transport.FuelType = f.Fuel
	}
	if f.Energy > 0 {
		req.Energy = f.Energy
	}
	if f.Diet != "" {
		req.Food.DietType = f.Diet
	}
	if f.FoodSource != "" {
		req.Food.FoodSource = f.FoodSource
	}
	if f.FoodType != "" {
		req.Food.FoodType = f.FoodType
	}
	if f.WasteType != "" {
		req.Waste.WasteType = f.WasteType
	}
	if f.WasteAmount > 0 {
		req.Waste.WasteAmount = f.WasteAmount
	}
	if f.Distance > 0 {
		req.Transport.Distance = f.Distance
	}

	out := &lifestyle{request: req}

	if f.Start == "" && f.End == "" {
		return out, nil
	}

	totals, err := planCommute(ctx, f.Start, f.End, f.Days)
	if err != nil {
		return nil, err
	}
	out.commute = &totals
	out.request.Transport.Distance = float64(totals.WeeklyKm)

	return out, nil
}

func loadProfile(path string) (*client.CalculateRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var req client.CalculateRequest

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse JSON profile: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
		}
	}

	return &req, nil
}
