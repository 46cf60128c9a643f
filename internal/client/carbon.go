package client

import (
	"context"
	"net/http"
)

// TransportProfile describes regular travel for a footprint calculation.
type TransportProfile struct {
	Distance    float64 `json:"distance" yaml:"distance" validate:"gte=0"`
	VehicleType string  `json:"vehicleType" yaml:"vehicleType"`
	FuelType    string  `json:"fuelType" yaml:"fuelType"`
}

type FoodProfile struct {
	DietType   string `json:"dietType" yaml:"dietType"`
	FoodSource string `json:"foodSource,omitempty" yaml:"foodSource"`
	FoodType   string `json:"foodType,omitempty" yaml:"foodType"`
}

type WasteProfile struct {
	WasteType   string  `json:"wasteType" yaml:"wasteType"`
	WasteAmount float64 `json:"wasteAmount" yaml:"wasteAmount" validate:"gte=0"`
}

// CalculateRequest is the lifestyle profile sent for a footprint estimate.
// Energy is monthly electricity use in kWh.
type CalculateRequest struct {
	Transport TransportProfile `json:"transport" yaml:"transport"`
	Energy    float64          `json:"energy" yaml:"energy" validate:"gte=0"`
	Food      FoodProfile      `json:"food" yaml:"food"`
	Waste     WasteProfile     `json:"waste" yaml:"waste"`
}

type CategoryCarbon struct {
	Category string `json:"category"`
	Carbon   Number `json:"carbon"`
}

type Breakdown struct {
	Total        Number           `json:"total"`
	CategoryData []CategoryCarbon `json:"categoryData"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Savings     Text   `json:"savings"`
}

// CalculateResult is a footprint estimate in kg CO2e per month.
type CalculateResult struct {
	TotalCarbon     Number           `json:"totalCarbon"`
	Breakdown       Breakdown        `json:"breakdown"`
	Recommendations []Recommendation `json:"recommendations"`
}

// HistoryEntry is one month of recorded footprint.
type HistoryEntry struct {
	Month       string `json:"month"`
	TotalCarbon Number `json:"totalCarbon"`
}

// Calculate submits a lifestyle profile and returns the server's estimate.
func (c *Client) Calculate(ctx context.Context, req CalculateRequest) (*CalculateResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res CalculateResult
	err := c.do(ctx, call{
		op:     "carbon.calculate",
		method: http.MethodPost,
		path:   "/carbon/calculate",
		body:   req,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// History lists the footprint recorded for previous months.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var res struct {
		History []HistoryEntry `json:"history"`
	}
	err := c.do(ctx, call{
		op:     "carbon.history",
		method: http.MethodGet,
		path:   "/carbon/history",
	}, &res)
	if err != nil {
		return nil, err
	}

	return res.History, nil
}
