package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateRegionalAnomalies(t *testing.T) {
	features := []RegionFeature{
		{Name: "Norway", CentroidLat: 64.5},
		{Name: "Kenya", CentroidLat: 0.5},
		{Name: "Chile", CentroidLat: -37.7},
	}

	regions := SimulateRegionalAnomalies(features, 42)
	require.Len(t, regions, len(features))

	for i, r := range regions {
		assert.Equal(t, features[i].Name, r.Name, "order preserved")
		assert.Equal(t, features[i].CentroidLat, r.CentroidLat)

		base := 0.5 + 0.01*math.Abs(features[i].CentroidLat)
		assert.InDelta(t, base, r.TempAnomaly, 1.0, "%s within 5 sigma of the latitude baseline", r.Name)
		assert.InDelta(t, math.Round(r.TempAnomaly*100)/100, r.TempAnomaly, 1e-12, "rounded to 2 decimals")
	}
}

func TestSimulateRegionalAnomalies_Deterministic(t *testing.T) {
	features := []RegionFeature{{Name: "A", CentroidLat: 10}, {Name: "B", CentroidLat: -80}}

	assert.Equal(t, SimulateRegionalAnomalies(features, 42), SimulateRegionalAnomalies(features, 42))
}

func TestSimulateRegionalAnomalies_PolesWarmerOnAverage(t *testing.T) {
	const n = 200
	polar := make([]RegionFeature, n)
	equatorial := make([]RegionFeature, n)
	for i := range n {
		polar[i] = RegionFeature{CentroidLat: 75}
		equatorial[i] = RegionFeature{CentroidLat: 0}
	}

	assert.Greater(t, meanAnomaly(SimulateRegionalAnomalies(polar, 1)), meanAnomaly(SimulateRegionalAnomalies(equatorial, 1)))
}

func TestSimulateRegionalAnomalies_Empty(t *testing.T) {
	assert.Empty(t, SimulateRegionalAnomalies(nil, 42))
}

func meanAnomaly(regions []Region) float64 {
	var sum float64
	for _, r := range regions {
		sum += r.TempAnomaly
	}
	return sum / float64(len(regions))
}
