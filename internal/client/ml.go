package client

import (
	"context"
	"errors"
	"net/http"
)

const (
	mlErrorMessage = "ML API call failed"

	// DefaultTrendWeeks is how many weeks of trend the predictor projects.
	DefaultTrendWeeks = 4
)

// ErrPredictionUnavailable is returned when the ML service answers without
// reporting success.
var ErrPredictionUnavailable = errors.New("prediction unavailable")

type PredictTransport struct {
	TripsPerWeek    int     `json:"tripsPerWeek" validate:"gte=0"`
	DistancePerTrip float64 `json:"distancePerTrip" validate:"gte=0"`
	VehicleType     string  `json:"vehicleType"`
	FuelType        string  `json:"fuelType"`
}

type PredictFood struct {
	DietType string `json:"dietType"`
}

// PredictRequest is the weekly lifestyle profile fed to the ML model.
type PredictRequest struct {
	Transport PredictTransport `json:"transport"`
	Energy    float64          `json:"energy" validate:"gte=0"`
	Food      PredictFood      `json:"food"`
	Waste     WasteProfile     `json:"waste"`
}

// NewPredictRequest derives model inputs from a calculator profile. The trip
// count is the weekly distance over the round trip, falling back to 10 trips
// of 20 km when the profile carries no commute.
func NewPredictRequest(calc CalculateRequest, oneWayKm, weeklyKm float64) PredictRequest {
	trips := 10
	if oneWayKm > 0 {
		if n := int(weeklyKm/(oneWayKm*2) + 0.5); n > 0 {
			trips = n
		}
	}

	perTrip := oneWayKm
	if perTrip <= 0 {
		perTrip = 20
	}

	return PredictRequest{
		Transport: PredictTransport{
			TripsPerWeek:    trips,
			DistancePerTrip: perTrip,
			VehicleType:     calc.Transport.VehicleType,
			FuelType:        calc.Transport.FuelType,
		},
		Energy: calc.Energy,
		Food:   PredictFood{DietType: calc.Food.DietType},
		Waste:  calc.Waste,
	}
}

// Prediction is a weekly footprint estimate in kg CO2e.
type Prediction struct {
	Success    bool              `json:"success"`
	Prediction Number            `json:"prediction"`
	LowerBound Number            `json:"lowerBound"`
	UpperBound Number            `json:"upperBound"`
	Confidence Number            `json:"confidence"`
	Unit       string            `json:"unit"`
	Breakdown  map[string]Number `json:"breakdown"`
}

type TrendPoint struct {
	Week       Text   `json:"week"`
	Predicted  Number `json:"predicted"`
	LowerBound Number `json:"lower_bound"`
	UpperBound Number `json:"upper_bound"`
}

// ModelInfo describes the currently trained model.
type ModelInfo struct {
	MeanFootprint Number         `json:"mean_footprint"`
	Extra         map[string]any `json:"-"`
}

type TrainingMetrics struct {
	TestR2  Number `json:"test_r2"`
	TestMAE Number `json:"test_mae"`
}

// ModelInfo fetches details about the trained model.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var res struct {
		Success bool           `json:"success"`
		Info    map[string]any `json:"info"`
	}
	err := c.do(ctx, call{
		op:       "ml.model_info",
		method:   http.MethodGet,
		path:     "/ml/model-info",
		fallback: mlErrorMessage,
	}, &res)
	if err != nil {
		return nil, err
	}

	if !res.Success || res.Info == nil {
		return nil, ErrPredictionUnavailable
	}

	info := &ModelInfo{Extra: res.Info}
	if mean, ok := res.Info["mean_footprint"].(float64); ok {
		info.MeanFootprint = Number(mean)
	}

	return info, nil
}

// TrainModel asks the service to retrain and returns its test metrics.
func (c *Client) TrainModel(ctx context.Context) (*TrainingMetrics, error) {
	var res struct {
		Metrics TrainingMetrics `json:"metrics"`
	}
	err := c.do(ctx, call{
		op:       "ml.train_model",
		method:   http.MethodPost,
		path:     "/ml/train-model",
		fallback: mlErrorMessage,
	}, &res)
	if err != nil {
		return nil, err
	}

	return &res.Metrics, nil
}

// Predict returns a weekly estimate for the profile.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (*Prediction, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var res Prediction
	err := c.do(ctx, call{
		op:       "ml.predict",
		method:   http.MethodPost,
		path:     "/ml/predict",
		body:     req,
		fallback: mlErrorMessage,
	}, &res)
	if err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, ErrPredictionUnavailable
	}

	return &res, nil
}

// WeeklyTrend projects the profile forward the given number of weeks.
func (c *Client) WeeklyTrend(ctx context.Context, req PredictRequest, weeks int) ([]TrendPoint, error) {
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}

	body := struct {
		CurrentData PredictRequest `json:"currentData"`
		Weeks       int            `json:"weeks"`
	}{req, weeks}

	var res struct {
		Success bool         `json:"success"`
		Trend   []TrendPoint `json:"trend"`
	}
	err := c.do(ctx, call{
		op:       "ml.weekly_trend",
		method:   http.MethodPost,
		path:     "/ml/weekly-trend",
		body:     body,
		fallback: mlErrorMessage,
	}, &res)
	if err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, ErrPredictionUnavailable
	}

	return res.Trend, nil
}
