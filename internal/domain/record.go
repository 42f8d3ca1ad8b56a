package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig reports generator or forecaster parameters that can never
// produce a valid result, such as an inverted year range.
var ErrInvalidConfig = errors.New("invalid configuration")

// YearlyRecord holds the synthetic indicators for one year.
type YearlyRecord struct {
	Year               int     `json:"year"`
	TemperatureAnomaly float64 `json:"temperature_anomaly"`
	CO2PPM             int     `json:"co2_ppm"`
	SeaLevelMM         float64 `json:"sea_level_mm"`
}

// Label tags a display row as observed or extrapolated.
type Label string

const (
	LabelHistorical Label = "Historical"
	LabelPredicted  Label = "Predicted"
)

// ForecastPoint is one extrapolated CO₂ value. Year is always after the last
// historical year.
type ForecastPoint struct {
	Year         int     `json:"year"`
	PredictedCO2 float64 `json:"predicted_co2"`
	Label        Label   `json:"label"`
}

// DisplayRow is a row of the merged historical-plus-forecast CO₂ sequence.
type DisplayRow struct {
	Year   int     `json:"year"`
	CO2PPM float64 `json:"co2_ppm"`
	Label  Label   `json:"label"`
}

// TrendCoefficients parameterize the deterministic part of each indicator.
type TrendCoefficients struct {
	BaseYear      int     `json:"base_year"`
	TempQuadratic float64 `json:"temp_quadratic"`
	TempOffset    float64 `json:"temp_offset"`
	CO2Base       float64 `json:"co2_base"`
	CO2Slope      float64 `json:"co2_slope"`
	SeaLevelSlope float64 `json:"sea_level_slope"`
}

// DefaultTrend returns the coefficients used by the dashboard.
func DefaultTrend() TrendCoefficients {
	return TrendCoefficients{
		BaseYear:      1900,
		TempQuadratic: 0.0005,
		TempOffset:    -0.5,
		CO2Base:       280,
		CO2Slope:      1.8,
		SeaLevelSlope: 0.08,
	}
}

// GeneratorParams fully determines a generated series. It is comparable and
// doubles as the series cache key.
type GeneratorParams struct {
	StartYear  int               `json:"start_year"`
	EndYear    int               `json:"end_year"`
	Seed       int64             `json:"seed"`
	NoiseScale float64           `json:"noise_scale"`
	Trend      TrendCoefficients `json:"trend"`
}

// DefaultParams returns the 1900–2023 parameter set.
func DefaultParams() GeneratorParams {
	return GeneratorParams{
		StartYear:  1900,
		EndYear:    2023,
		Seed:       42,
		NoiseScale: 1,
		Trend:      DefaultTrend(),
	}
}

// Limits on generator parameters.
const (
	MaxSeriesYears = 10000
	MaxNoiseScale  = 100
)

// Validate fails fast on parameters that cannot produce a series.
func (p GeneratorParams) Validate() error {
	if p.EndYear < p.StartYear {
		return fmt.Errorf("%w: end year %d before start year %d", ErrInvalidConfig, p.EndYear, p.StartYear)
	}
	// Unsigned subtraction cannot overflow once EndYear >= StartYear.
	if span := uint64(p.EndYear) - uint64(p.StartYear); span >= MaxSeriesYears {
		return fmt.Errorf("%w: year range %d..%d exceeds %d years", ErrInvalidConfig, p.StartYear, p.EndYear, MaxSeriesYears)
	}
	// NaN fails the comparison below, so it is rejected too.
	if !(p.NoiseScale >= 0 && p.NoiseScale <= MaxNoiseScale) {
		return fmt.Errorf("%w: noise scale must be between 0 and %d, got %v", ErrInvalidConfig, MaxNoiseScale, p.NoiseScale)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ForecastReport is the published form of a computed forecast.
type ForecastReport struct {
	Params      GeneratorParams `json:"params"`
	Model       LinearModel     `json:"model"`
	Points      []ForecastPoint `json:"points"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// NewForecastReport stamps a forecast with the current time.
func NewForecastReport(p GeneratorParams, m LinearModel, points []ForecastPoint) ForecastReport {
	return ForecastReport{
		Params:      p,
		Model:       m,
		Points:      points,
		GeneratedAt: clock.Now().UTC(),
	}
}
