package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FeatureCollection is a GeoJSON collection whose geometries are passed
// through untouched.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one GeoJSON feature.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Property returns a string property, or "" when absent.
func (f Feature) Property(key string) string {
	v, ok := f.Properties[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ReadGeoJSONFile parses a FeatureCollection from disk.
func ReadGeoJSONFile(path string) (FeatureCollection, error) {
	fh, err := os.Open(path)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return ReadGeoJSON(fh)
}

// ReadGeoJSON parses a FeatureCollection.
func ReadGeoJSON(r io.Reader) (FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return FeatureCollection{}, fmt.Errorf("unexpected geojson type %q", fc.Type)
	}
	return fc, nil
}
