package topojson

import (
	geojson "github.com/paulmach/go.geojson"
)

// FeatureCollection converts the named object into a GeoJSON feature
// collection. A GeometryCollection object yields one feature per member; any
// other object yields a single-feature collection. ID, properties and bbox
// are carried through unchanged.
func (t *Topology) FeatureCollection(key string) (*geojson.FeatureCollection, error) {
	o, err := t.Object(key)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	if o.Type == geojson.GeometryCollection {
		for _, g := range o.Geometries {
			fc.AddFeature(t.feature(g))
		}
	} else {
		fc.AddFeature(t.feature(o))
	}
	return fc, nil
}

// Feature converts the named object into a single GeoJSON feature. A
// GeometryCollection object becomes a feature holding a geometry collection.
func (t *Topology) Feature(key string) (*geojson.Feature, error) {
	o, err := t.Object(key)
	if err != nil {
		return nil, err
	}
	return t.feature(o), nil
}

func (t *Topology) feature(o *Geometry) *geojson.Feature {
	feat := geojson.NewFeature(t.Geometry(o))
	feat.ID = o.ID
	feat.Properties = o.Properties
	feat.BoundingBox = o.BoundingBox
	return feat
}

// Geometry reconstructs concrete coordinates for a topology geometry,
// dereferencing its arc indices through the topology's transform.
func (t *Topology) Geometry(o *Geometry) *geojson.Geometry {
	r := &reconstructor{arcs: t.Arcs, tr: t.transformer()}
	return r.geometry(o)
}

type reconstructor struct {
	arcs [][][]float64
	tr   pointTransformer
}

// arc appends the decoded coordinates of arc i to points. The previous last
// point is dropped first so that the joining vertex between consecutive arcs
// appears exactly once. Negative indices traverse the arc in reverse: the
// points are decoded in stored order (the transformer accumulates deltas
// front-to-back), then the appended slice is flipped.
func (r *reconstructor) arc(i int, points [][]float64) [][]float64 {
	if len(points) > 0 {
		points = points[:len(points)-1]
	}
	a := r.arcs[index(i)]
	for k, p := range a {
		points = append(points, r.tr.transform(p, k))
	}
	if i < 0 {
		reverseLast(points, len(a))
	}
	return points
}

func (r *reconstructor) point(p []float64) []float64 {
	return r.tr.transform(p, 0)
}

func (r *reconstructor) line(arcs []int) [][]float64 {
	var points [][]float64
	for _, i := range arcs {
		points = r.arc(i, points)
	}
	if len(points) < 2 {
		points = append(points, dup(points[0]))
	}
	return points
}

func (r *reconstructor) ring(arcs []int) [][]float64 {
	points := r.line(arcs)
	for len(points) < 4 {
		points = append(points, dup(points[0]))
	}
	return points
}

func (r *reconstructor) polygon(arcs [][]int) [][][]float64 {
	rings := make([][][]float64, len(arcs))
	for i, a := range arcs {
		rings[i] = r.ring(a)
	}
	return rings
}

func (r *reconstructor) geometry(o *Geometry) *geojson.Geometry {
	switch o.Type {
	case geojson.GeometryCollection:
		geometries := make([]*geojson.Geometry, len(o.Geometries))
		for i, g := range o.Geometries {
			geometries[i] = r.geometry(g)
		}
		return geojson.NewCollectionGeometry(geometries...)
	case geojson.GeometryPoint:
		return geojson.NewPointGeometry(r.point(o.Point))
	case geojson.GeometryMultiPoint:
		points := make([][]float64, len(o.MultiPoint))
		for i, p := range o.MultiPoint {
			points[i] = r.point(p)
		}
		return geojson.NewMultiPointGeometry(points...)
	case geojson.GeometryLineString:
		return geojson.NewLineStringGeometry(r.line(o.LineString))
	case geojson.GeometryMultiLineString:
		lines := make([][][]float64, len(o.MultiLineString))
		for i, l := range o.MultiLineString {
			lines[i] = r.line(l)
		}
		return geojson.NewMultiLineStringGeometry(lines...)
	case geojson.GeometryPolygon:
		return geojson.NewPolygonGeometry(r.polygon(o.Polygon))
	case geojson.GeometryMultiPolygon:
		polygons := make([][][][]float64, len(o.MultiPolygon))
		for i, p := range o.MultiPolygon {
			polygons[i] = r.polygon(p)
		}
		return geojson.NewMultiPolygonGeometry(polygons...)
	}
	return nil
}

// reverseLast flips the last n elements of points in place.
func reverseLast(points [][]float64, n int) {
	tail := points[len(points)-n:]
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
}

func dup(p []float64) []float64 {
	return []float64{p[0], p[1]}
}
