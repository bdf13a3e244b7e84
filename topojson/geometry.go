package topojson

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	geojson "github.com/paulmach/go.geojson"
)

// Geometry is a topology object. Unlike a GeoJSON geometry, the line and
// polygon variants reference arcs by signed index instead of carrying
// coordinates; only Point and MultiPoint hold coordinates directly (in the
// transform's coordinate space). ID, Properties and BoundingBox are carried
// through to reconstructed features unchanged.
type Geometry struct {
	Type        geojson.GeometryType
	ID          interface{}
	Properties  map[string]interface{}
	BoundingBox []float64

	Geometries      []*Geometry
	Point           []float64
	MultiPoint      [][]float64
	LineString      []int
	MultiLineString [][]int
	Polygon         [][]int
	MultiPolygon    [][][]int
}

type geometryJSON struct {
	Type        geojson.GeometryType   `json:"type"`
	ID          interface{}            `json:"id,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
	BBox        []float64              `json:"bbox,omitempty"`
	Geometries  []*Geometry            `json:"geometries,omitempty"`
	Coordinates interface{}            `json:"coordinates,omitempty"`
	Arcs        interface{}            `json:"arcs,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (g *Geometry) MarshalJSON() ([]byte, error) {
	raw := &geometryJSON{
		Type:       g.Type,
		ID:         g.ID,
		Properties: g.Properties,
		BBox:       g.BoundingBox,
	}

	switch g.Type {
	case geojson.GeometryCollection:
		raw.Geometries = g.Geometries
	case geojson.GeometryPoint:
		raw.Coordinates = g.Point
	case geojson.GeometryMultiPoint:
		raw.Coordinates = g.MultiPoint
	case geojson.GeometryLineString:
		raw.Arcs = g.LineString
	case geojson.GeometryMultiLineString:
		raw.Arcs = g.MultiLineString
	case geojson.GeometryPolygon:
		raw.Arcs = g.Polygon
	case geojson.GeometryMultiPolygon:
		raw.Arcs = g.MultiPolygon
	default:
		return nil, fmt.Errorf("topojson: unknown geometry type %q", g.Type)
	}

	return jsoniter.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler. The geometry is discriminated by
// its "type" tag; an unknown tag is an error.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	raw := struct {
		Type        geojson.GeometryType   `json:"type"`
		ID          interface{}            `json:"id"`
		Properties  map[string]interface{} `json:"properties"`
		BBox        []float64              `json:"bbox"`
		Geometries  []*Geometry            `json:"geometries"`
		Coordinates jsoniter.RawMessage    `json:"coordinates"`
		Arcs        jsoniter.RawMessage    `json:"arcs"`
	}{}
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.Type = raw.Type
	g.ID = raw.ID
	g.Properties = raw.Properties
	g.BoundingBox = raw.BBox

	switch raw.Type {
	case geojson.GeometryCollection:
		g.Geometries = raw.Geometries
	case geojson.GeometryPoint:
		return jsoniter.Unmarshal(raw.Coordinates, &g.Point)
	case geojson.GeometryMultiPoint:
		return jsoniter.Unmarshal(raw.Coordinates, &g.MultiPoint)
	case geojson.GeometryLineString:
		return jsoniter.Unmarshal(raw.Arcs, &g.LineString)
	case geojson.GeometryMultiLineString:
		return jsoniter.Unmarshal(raw.Arcs, &g.MultiLineString)
	case geojson.GeometryPolygon:
		return jsoniter.Unmarshal(raw.Arcs, &g.Polygon)
	case geojson.GeometryMultiPolygon:
		return jsoniter.Unmarshal(raw.Arcs, &g.MultiPolygon)
	default:
		return fmt.Errorf("topojson: unknown geometry type %q", raw.Type)
	}

	return nil
}
