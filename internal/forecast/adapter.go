package forecast

import (
	"fmt"
	"time"

	"adash/internal/analytics"

	"github.com/shopspring/decimal"
)

// DefaultHorizon is the number of days forecast ahead of the last observation.
const DefaultHorizon = 7

// ForecastPoint is one predicted day, in the same monetary unit as the
// observed daily series.
type ForecastPoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Adapter wraps the pre-trained model and its paired scaler. Its contract
// with the core: supply the historical daily amount series, receive a
// same-unit forecast aligned to the dates after the last observed date.
type Adapter struct {
	model  ModelArtifact
	scaler ScalerArtifact
}

// Window returns the number of trailing observations the model consumes.
func (a *Adapter) Window() int {
	return a.model.Window
}

// Forecast predicts the next horizon days of the daily amount series. The
// series must be in ascending date order (the aggregator's output invariant)
// and at least as long as the model window. A non-positive horizon falls back
// to DefaultHorizon.
func (a *Adapter) Forecast(daily []analytics.DailySales, horizon int) ([]ForecastPoint, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if len(daily) < a.model.Window {
		return nil, fmt.Errorf("forecast needs %d observed days, have %d", a.model.Window, len(daily))
	}

	// Scale the trailing window into model space.
	window := make([]float64, a.model.Window)
	for i := 0; i < a.model.Window; i++ {
		amount := daily[len(daily)-a.model.Window+i].Amount.InexactFloat64()
		window[i] = a.scale(amount)
	}

	lastDate := daily[len(daily)-1].Date
	points := make([]ForecastPoint, horizon)
	for step := 0; step < horizon; step++ {
		pred := a.model.Bias
		for i, w := range a.model.Weights {
			pred += w * window[i]
		}

		points[step] = ForecastPoint{
			Date:   lastDate.AddDate(0, 0, step+1),
			Amount: decimal.NewFromFloat(a.inverse(pred)).Round(2),
		}

		// Autoregress: the prediction becomes the newest window entry.
		copy(window, window[1:])
		window[len(window)-1] = pred
	}

	return points, nil
}

func (a *Adapter) scale(v float64) float64 {
	return (v - a.scaler.Min) / (a.scaler.Max - a.scaler.Min)
}

func (a *Adapter) inverse(v float64) float64 {
	return v*(a.scaler.Max-a.scaler.Min) + a.scaler.Min
}
