package domain

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noise standard deviations at NoiseScale 1.
const (
	tempNoiseSD     = 0.15
	co2NoiseSD      = 5.0
	seaLevelNoiseSD = 5.0
)

// GenerateSeries produces one record per year in [p.StartYear, p.EndYear].
// It is a pure function of p.
func GenerateSeries(p GeneratorParams) ([]YearlyRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.EndYear - p.StartYear + 1
	src := newSource(p.Seed)
	// Each indicator draws its whole noise vector before the next one starts.
	tempNoise := drawNoise(src, n, tempNoiseSD*p.NoiseScale)
	co2Noise := drawNoise(src, n, co2NoiseSD*p.NoiseScale)
	seaNoise := drawNoise(src, n, seaLevelNoiseSD*p.NoiseScale)

	tr := p.Trend
	records := make([]YearlyRecord, n)
	for i := range records {
		year := p.StartYear + i
		t := float64(year - tr.BaseYear)

		records[i] = YearlyRecord{
			Year:               year,
			TemperatureAnomaly: tr.TempQuadratic*t*t + tr.TempOffset + tempNoise[i],
			CO2PPM:             int(math.Trunc(tr.CO2Base + tr.CO2Slope*t + co2Noise[i])),
			SeaLevelMM:         math.Max(0, tr.SeaLevelSlope*t+seaNoise[i]),
		}
	}
	return records, nil
}

func newSource(seed int64) rand.Source {
	s := uint64(seed)
	return rand.NewPCG(s, s^0x9e3779b97f4a7c15)
}

func drawNoise(src rand.Source, n int, sd float64) []float64 {
	out := make([]float64, n)
	if sd == 0 {
		return out
	}
	dist := distuv.Normal{Mu: 0, Sigma: sd, Src: src}
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// FilterYears returns a copy of the records whose year lies in [from, to].
func FilterYears(records []YearlyRecord, from, to int) []YearlyRecord {
	out := make([]YearlyRecord, 0, len(records))
	for _, r := range records {
		if r.Year >= from && r.Year <= to {
			out = append(out, r)
		}
	}
	return out
}

// defaultWindowStart is the earliest year shown when no range is selected.
const defaultWindowStart = 1950

// DefaultWindow returns the initial time-range selection for a series:
// from max(first year, 1950) to the last year, or the whole series when it
// ends before 1950. ok is false for an empty series.
func DefaultWindow(records []YearlyRecord) (from, to int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	first, last := records[0].Year, records[len(records)-1].Year
	from = max(first, defaultWindowStart)
	if from > last {
		from = first
	}
	return from, last, true
}

// ValidateSeries checks the series invariants: years strictly increasing by
// exactly one and sea level never negative.
func ValidateSeries(records []YearlyRecord) error {
	for i, r := range records {
		if r.SeaLevelMM < 0 {
			return fmt.Errorf("year %d: negative sea level %.3f", r.Year, r.SeaLevelMM)
		}
		if !finite(r.TemperatureAnomaly) || !finite(r.SeaLevelMM) {
			return fmt.Errorf("year %d: non-finite value", r.Year)
		}
		if i == 0 {
			continue
		}
		prev := records[i-1].Year
		switch {
		case r.Year == prev:
			return fmt.Errorf("duplicate year %d", r.Year)
		case r.Year < prev:
			return fmt.Errorf("year %d out of order after %d", r.Year, prev)
		case r.Year != prev+1:
			return fmt.Errorf("gap between %d and %d", prev, r.Year)
		}
	}
	return nil
}
