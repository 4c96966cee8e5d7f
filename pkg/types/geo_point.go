package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GeoPoint is a latitude/longitude pair stored as jsonb.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point sits inside the WGS84 coordinate range.
func (g GeoPoint) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lng >= -180 && g.Lng <= 180
}

// Value marshals GeoPoint into a jsonb literal.
func (g GeoPoint) Value() (driver.Value, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("geo point: coordinates out of range lat=%f lng=%f", g.Lat, g.Lng)
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("geo point: marshal %w", err)
	}
	return string(raw), nil
}

// Scan decodes the jsonb column back into a GeoPoint.
func (g *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		*g = GeoPoint{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("geo point: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*g = GeoPoint{}
		return nil
	}

	if err := json.Unmarshal(raw, g); err != nil {
		return fmt.Errorf("geo point: unmarshal %w", err)
	}
	return nil
}
