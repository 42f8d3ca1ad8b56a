// Package domain models the synthetic climate indicators shown on the
// dashboard and the small amount of numeric logic behind them.
//
// # Series
//
// A series is one [YearlyRecord] per year over a contiguous, inclusive range.
// Values are synthetic: each indicator is a deterministic trend in
// t = year - BaseYear plus independent Gaussian noise drawn from a single PCG
// source seeded by [GeneratorParams.Seed]:
//
//	temperature anomaly (°C): 0.0005·t² - 0.5 + N(0, 0.15)
//	CO₂ (ppm):                280 + 1.8·t + N(0, 5), truncated to an integer
//	sea level rise (mm):      0.08·t + N(0, 5), floored at zero
//
// The coefficients above are the defaults ([DefaultTrend]). The noise standard
// deviations are multiplied by [GeneratorParams.NoiseScale]; a scale of zero
// yields the pure trend. Identical parameters always yield identical output,
// which is what makes the series safe to cache by parameter set.
//
// # Forecast
//
// The CO₂ forecast is an ordinary least-squares line fitted to every
// historical point:
//
//	co2 = Intercept + Slope·(year - Origin)
//
// Origin is the first historical year. The line is evaluated at the
// horizon years that follow the last historical year. Fewer than two points
// or a series whose years are all equal cannot be fitted and yield a
// [*FittingError].
//
// For display, a tail of the historical series (years at or after a cutoff)
// is concatenated with the forecast into [DisplayRow] values labelled
// [LabelHistorical] or [LabelPredicted].
//
// # Regions
//
// Regional anomalies are simulated from each region's centroid latitude:
//
//	anomaly = 0.5 + 0.01·|lat| + N(0, 0.2), rounded to 2 decimals
//
// Region geometry comes from an ordered list of [RegionSource] providers;
// the first that does not report [ErrSourceNotFound] wins.
//
// # Inference collaborators
//
// Summaries and answers come from remote language-model endpoints behind the
// [Summarizer] and [QuestionAnswerer] interfaces. Their failures are never
// fatal: callers receive [ErrAIUnavailable] or [ErrUpstream] and the rest of
// the dashboard keeps working.
package domain
