package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Calculator types accepted by the energy advisor.
const (
	CalculatorSolar      = "solar"
	CalculatorEfficiency = "efficiency"
)

// SolarRequest describes a rooftop solar installation. Either RoofArea or
// PanelCount sizes the array; EnergyUsage is monthly kWh.
type SolarRequest struct {
	RoofArea         float64 `json:"roofArea" validate:"gte=0"`
	PanelCount       int     `json:"panelCount" validate:"gte=0"`
	EnergyUsage      float64 `json:"energyUsage" validate:"gt=0"`
	SunHours         float64 `json:"sunHours" validate:"gte=1,lte=12"`
	ElectricityRate  float64 `json:"electricityRate" validate:"gt=0"`
	InstallationCost float64 `json:"installationCost" validate:"gte=0"`
}

type Period struct {
	Monthly Number `json:"monthly"`
	Yearly  Number `json:"yearly"`
}

// SolarEstimate is the solar calculator's result. Raw holds the result as
// received so it can be handed back to the advisor unchanged.
type SolarEstimate struct {
	EnergyGeneration Period `json:"energyGeneration"`
	Savings          Period `json:"savings"`
	CO2Reduction     Number `json:"co2Reduction"`
	CoveragePercent  Number `json:"coveragePercent"`
	PanelsNeeded     Number `json:"panelsNeeded"`
	PaybackTime      Number `json:"paybackTime"`

	Raw json.RawMessage `json:"-"`
}

// Appliance compares current and efficient wattage for a group of devices.
type Appliance struct {
	Type           string  `json:"type" validate:"required"`
	CurrentUsage   float64 `json:"currentUsage" validate:"gte=0"`
	EfficientUsage float64 `json:"efficientUsage" validate:"gte=0"`
	Quantity       int     `json:"quantity" validate:"gte=1"`
}

// DefaultAppliances is the starting set offered by the efficiency calculator.
func DefaultAppliances() []Appliance {
	return []Appliance{
		{Type: "LED Bulbs", CurrentUsage: 60, EfficientUsage: 10, Quantity: 10},
		{Type: "Refrigerator", CurrentUsage: 150, EfficientUsage: 100, Quantity: 1},
		{Type: "Air Conditioner", CurrentUsage: 300, EfficientUsage: 200, Quantity: 2},
	}
}

type EfficiencyRequest struct {
	Appliances      []Appliance `json:"appliances" validate:"required,min=1,dive"`
	ElectricityRate float64     `json:"electricityRate" validate:"gt=0"`
}

type ApplianceSavings struct {
	Type        string `json:"type"`
	EnergySaved Number `json:"energySaved"`
	CostSaved   Number `json:"costSaved"`
	CO2Saved    Number `json:"co2Saved"`
}

// EfficiencyEstimate is the monthly saving from upgrading appliances.
type EfficiencyEstimate struct {
	TotalEnergySaved Number             `json:"totalEnergySaved"`
	TotalCostSaved   Number             `json:"totalCostSaved"`
	TotalCO2Saved    Number             `json:"totalCO2Saved"`
	Breakdown        []ApplianceSavings `json:"breakdown"`

	Raw json.RawMessage `json:"-"`
}

// AdviceRequest asks the advisor about a calculator result. Results may be
// empty when the user asks without running a calculator first.
type AdviceRequest struct {
	CalculatorType string          `json:"calculatorType" validate:"oneof=solar efficiency"`
	Results        json.RawMessage `json:"results"`
	UserQuestion   string          `json:"userQuestion,omitempty"`
}

// SolarCalculator estimates generation and savings for a solar install.
func (c *Client) SolarCalculator(ctx context.Context, req SolarRequest) (*SolarEstimate, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res struct {
		Results json.RawMessage `json:"results"`
	}
	err := c.do(ctx, call{
		op:     "energy.solar",
		method: http.MethodPost,
		path:   "/energy/solar-calculator",
		body:   req,
	}, &res)
	if err != nil {
		return nil, err
	}

	var est SolarEstimate
	if err := json.Unmarshal(res.Results, &est); err != nil {
		return nil, fmt.Errorf("failed to decode energy.solar results: %w", err)
	}
	est.Raw = res.Results

	return &est, nil
}

// EfficiencyCalculator estimates savings from replacing appliances.
func (c *Client) EfficiencyCalculator(ctx context.Context, req EfficiencyRequest) (*EfficiencyEstimate, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err := c.do(ctx, call{
		op:     "energy.efficiency",
		method: http.MethodPost,
		path:   "/energy/efficiency-calculator",
		body:   req,
	}, &raw)
	if err != nil {
		return nil, err
	}

	var est EfficiencyEstimate
	if err := json.Unmarshal(raw, &est); err != nil {
		return nil, fmt.Errorf("failed to decode energy.efficiency response: %w", err)
	}
	est.Raw = raw

	return &est, nil
}

// EnergyAdvice asks the advisor to explain a calculator result or answer a
// question about it.
func (c *Client) EnergyAdvice(ctx context.Context, req AdviceRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}
	if len(req.Results) == 0 {
		req.Results = json.RawMessage("null")
	}

	var res struct {
		Advice string `json:"advice"`
	}
	err := c.do(ctx, call{
		op:     "energy.advice",
		method: http.MethodPost,
		path:   "/energy/ai-advice",
		body:   req,
	}, &res)
	if err != nil {
		return "", err
	}

	return res.Advice, nil
}
