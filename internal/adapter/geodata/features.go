package geodata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

const unknownCountry = "Unknown Country"

// nameColumns lists the accepted name properties, most preferred first.
var nameColumns = []string{"name", "NAME", "ADMIN"}

// ErrNoFeatures is returned for a document without any features.
var ErrNoFeatures = errors.New("geojson contains no features")

// Map is a parsed region document. Features[i] describes Collection.Features[i].
type Map struct {
	Collection *geojson.FeatureCollection
	Features   []domain.RegionFeature
}

// ParseFeatures decodes a GeoJSON FeatureCollection, resolving each feature's
// display name and the latitude of its planar centroid.
func ParseFeatures(data []byte) (*Map, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoFeatures
	}

	column := nameColumn(fc)
	features := make([]domain.RegionFeature, len(fc.Features))
	for i, f := range fc.Features {
		var lat float64
		if f.Geometry != nil {
			centroid, _ := planar.CentroidArea(f.Geometry)
			lat = centroid[1]
		}
		features[i] = domain.RegionFeature{
			Name:        featureName(f, column, i),
			CentroidLat: lat,
		}
	}
	return &Map{Collection: fc, Features: features}, nil
}

// nameColumn picks the first accepted property present on any feature.
func nameColumn(fc *geojson.FeatureCollection) string {
	for _, col := range nameColumns {
		for _, f := range fc.Features {
			if _, ok := f.Properties[col]; ok {
				return col
			}
		}
	}
	return ""
}

func featureName(f *geojson.Feature, column string, i int) string {
	if column == "" {
		return fmt.Sprintf("Region %d", i)
	}
	name, ok := f.Properties[column].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return unknownCountry
	}
	return name
}

// Choropleth returns a FeatureCollection carrying the original geometry with
// only the name and temp_anomaly properties. regions must be aligned with
// m.Features.
func (m *Map) Choropleth(regions []domain.Region) ([]byte, error) {
	if len(regions) != len(m.Collection.Features) {
		return nil, fmt.Errorf("choropleth: %d regions for %d features", len(regions), len(m.Collection.Features))
	}

	out := geojson.NewFeatureCollection()
	for i, src := range m.Collection.Features {
		f := geojson.NewFeature(src.Geometry)
		f.Properties["name"] = regions[i].Name
		f.Properties["temp_anomaly"] = regions[i].TempAnomaly
		out.Append(f)
	}
	return out.MarshalJSON()
}
