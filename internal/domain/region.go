package domain

import (
	"context"
	"errors"
	"math"
)

// ErrSourceNotFound is returned by a RegionSource that has no data to offer,
// telling the caller to try the next source.
var ErrSourceNotFound = errors.New("region source not found")

// RegionSource supplies raw GeoJSON region geometry.
type RegionSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load returns the GeoJSON document or ErrSourceNotFound.
	Load(ctx context.Context) ([]byte, error)
}

// RegionFeature is the part of a map feature the simulation needs.
type RegionFeature struct {
	Name        string
	CentroidLat float64
}

// Region is a map feature with its simulated anomaly.
type Region struct {
	Name        string  `json:"name"`
	CentroidLat float64 `json:"centroid_lat"`
	TempAnomaly float64 `json:"temp_anomaly"`
}

const regionNoiseSD = 0.2

// SimulateRegionalAnomalies assigns each feature 0.5 + 0.01·|lat| plus
// Gaussian noise, rounded to two decimals. Output order matches input order.
func SimulateRegionalAnomalies(features []RegionFeature, seed int64) []Region {
	noise := drawNoise(newSource(seed), len(features), regionNoiseSD)

	regions := make([]Region, len(features))
	for i, f := range features {
		anomaly := 0.5 + 0.01*math.Abs(f.CentroidLat) + noise[i]
		regions[i] = Region{
			Name:        f.Name,
			CentroidLat: f.CentroidLat,
			TempAnomaly: math.Round(anomaly*100) / 100,
		}
	}
	return regions
}
