package domain

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// FittingError reports a series the trend line cannot be fitted to.
type FittingError struct {
	Points int
	Reason string
}

func (e *FittingError) Error() string {
	return fmt.Sprintf("cannot fit CO2 trend to %d points: %s", e.Points, e.Reason)
}

// LinearModel is co2 = Intercept + Slope·(year - Origin).
type LinearModel struct {
	Origin    int     `json:"origin"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the line at year.
func (m LinearModel) Predict(year int) float64 {
	return m.Intercept + m.Slope*float64(year-m.Origin)
}

// FitCO2Trend fits an ordinary least-squares line of CO₂ on year using every
// record.
func FitCO2Trend(records []YearlyRecord) (LinearModel, error) {
	if len(records) < 2 {
		return LinearModel{}, &FittingError{Points: len(records), Reason: "at least 2 points required"}
	}

	origin := records[0].Year
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i] = float64(r.Year - origin)
		ys[i] = float64(r.CO2PPM)
	}

	if stat.Variance(xs, nil) == 0 {
		return LinearModel{}, &FittingError{Points: len(records), Reason: "all years identical"}
	}

	// stat.LinearRegression returns (alpha, beta) for y = alpha + beta·x,
	// i.e. beta = cov(x, y)/var(x) and alpha = mean(y) - beta·mean(x).
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return LinearModel{Origin: origin, Slope: beta, Intercept: alpha}, nil
}

// MaxForecastHorizon bounds the number of extrapolated years.
const MaxForecastHorizon = 1000

// ForecastCO2 fits the trend and evaluates it at the horizon years following
// the last historical year. records is not modified.
func ForecastCO2(records []YearlyRecord, horizon int) ([]ForecastPoint, LinearModel, error) {
	if horizon < 1 || horizon > MaxForecastHorizon {
		return nil, LinearModel{}, fmt.Errorf("%w: forecast horizon must be between 1 and %d, got %d", ErrInvalidConfig, MaxForecastHorizon, horizon)
	}

	model, err := FitCO2Trend(records)
	if err != nil {
		return nil, LinearModel{}, err
	}

	last := lastYear(records)
	points := make([]ForecastPoint, horizon)
	for i := range points {
		year := last + 1 + i
		points[i] = ForecastPoint{
			Year:         year,
			PredictedCO2: model.Predict(year),
			Label:        LabelPredicted,
		}
	}
	return points, model, nil
}

// MergeForDisplay concatenates the historical records with year >= cutoffYear
// and the forecast points, preserving order.
func MergeForDisplay(records []YearlyRecord, cutoffYear int, forecast []ForecastPoint) []DisplayRow {
	rows := make([]DisplayRow, 0, len(records)+len(forecast))
	for _, r := range records {
		if r.Year < cutoffYear {
			continue
		}
		rows = append(rows, DisplayRow{Year: r.Year, CO2PPM: float64(r.CO2PPM), Label: LabelHistorical})
	}
	for _, p := range forecast {
		rows = append(rows, DisplayRow{Year: p.Year, CO2PPM: p.PredictedCO2, Label: LabelPredicted})
	}
	return rows
}

// lastYear is the maximum year; the input is usually sorted but need not be.
func lastYear(records []YearlyRecord) int {
	last := records[0].Year
	for _, r := range records[1:] {
		last = max(last, r.Year)
	}
	return last
}
