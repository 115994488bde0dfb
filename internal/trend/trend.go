// Package trend prepares incident count series and delegates fitting to the
// goarima forecasting models. The model is an opaque collaborator: this
// package owns the series preparation and the result contract only.
package trend

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sartorproj/goarima/autoarima"
	"github.com/sartorproj/goarima/timeseries"

	"rescuemap/internal/models"
)

// ErrSeriesTooShort is returned when there are not enough observations to
// fit a model.
var ErrSeriesTooShort = errors.New("time series too short to fit")

// minObservations is the floor below which fitting is refused.
const minObservations = 12

// Decomposition summarizes a fitted model and its forecast.
type Decomposition struct {
	ModelName       string      `json:"modelName"`
	Order           string      `json:"order"`
	Seasonal        bool        `json:"seasonal"`
	AIC             float64     `json:"aic"`
	AICc            float64     `json:"aicc"`
	BIC             float64     `json:"bic"`
	ModelsEvaluated int         `json:"modelsEvaluated"`
	Periods         []time.Time `json:"periods"`
	Observed        []float64   `json:"observed"`
	Forecasts       []float64   `json:"forecasts"`
}

// MonthlyCounts aggregates incidents into a gap-free monthly count series.
// Months with no incidents between the first and last observation count as
// zero; the model needs a regular series.
func MonthlyCounts(incidents []models.Incident) ([]time.Time, []float64) {
	if len(incidents) == 0 {
		return nil, nil
	}

	counts := make(map[time.Time]float64, len(incidents))
	for _, inc := range incidents {
		counts[inc.MonthStart] = counts[inc.MonthStart] + 1
	}

	starts := make([]time.Time, 0, len(counts))
	for month := range counts {
		starts = append(starts, month)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	first, last := starts[0], starts[len(starts)-1]

	var (
		periods []time.Time
		values  []float64
	)

	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		periods = append(periods, month)
		values = append(values, counts[month])
	}

	return periods, values
}

// WeeklyCounts aggregates incidents into a gap-free weekly count series
// keyed by ISO week start.
func WeeklyCounts(incidents []models.Incident) ([]time.Time, []float64) {
	if len(incidents) == 0 {
		return nil, nil
	}

	counts := make(map[time.Time]float64, len(incidents))
	for _, inc := range incidents {
		counts[inc.WeekStart] = counts[inc.WeekStart] + 1
	}

	starts := make([]time.Time, 0, len(counts))
	for week := range counts {
		starts = append(starts, week)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	first, last := starts[0], starts[len(starts)-1]

	var (
		periods []time.Time
		values  []float64
	)

	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		periods = append(periods, week)
		values = append(values, counts[week])
	}

	return periods, values
}

// Fit runs Auto-ARIMA over the prepared series and forecasts horizon
// periods ahead. A period > 0 forces that seasonal cycle; 0 fits a
// non-seasonal model.
func Fit(periods []time.Time, values []float64, period, horizon int) (*Decomposition, error) {
	if len(values) < minObservations {
		return nil, fmt.Errorf("%w: %d observations, need %d", ErrSeriesTooShort, len(values), minObservations)
	}

	series := timeseries.New(values)

	cfg := autoarima.DefaultConfig()
	cfg.Criterion = "aicc"
	cfg.MaxP, cfg.MaxQ = 3, 3

	if period > 0 {
		cfg.Seasonal = true
		cfg.SeasonalM = period
	} else {
		cfg.Seasonal = false
	}

	auto, err := autoarima.AutoARIMA(series, cfg)
	if err != nil {
		return nil, fmt.Errorf("auto-arima fit failed: %w", err)
	}

	forecasts, err := auto.Predict(horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}

	dec := &Decomposition{
		ModelName:       "Auto-ARIMA",
		Seasonal:        auto.IsSeasonal,
		AIC:             auto.AIC,
		AICc:            auto.AICc,
		BIC:             auto.BIC,
		ModelsEvaluated: auto.ModelsEvaluated,
		Periods:         periods,
		Observed:        values,
		Forecasts:       forecasts,
	}

	if auto.IsSeasonal {
		dec.Order = fmt.Sprintf("(%d,%d,%d)(%d,%d,%d)[%d]", auto.P, auto.D, auto.Q, auto.SP, auto.SD, auto.SQ, auto.M)
	} else {
		dec.Order = fmt.Sprintf("(%d,%d,%d)", auto.P, auto.D, auto.Q)
	}

	return dec, nil
}
