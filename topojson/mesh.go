package topojson

import (
	geojson "github.com/paulmach/go.geojson"
)

// Mesh returns the stitched mesh of every arc in the topology as a GeoJSON
// MultiLineString geometry.
func (t *Topology) Mesh() *geojson.Geometry {
	arcs := make([]int, len(t.Arcs))
	for i := range arcs {
		arcs[i] = i
	}
	return t.Geometry(&Geometry{Type: geojson.GeometryMultiLineString, MultiLineString: stitch(t, arcs)})
}

// MeshKey is MeshObject for the named object.
func (t *Topology) MeshKey(key string, filter func(a, b *Geometry) bool) (*geojson.Geometry, error) {
	o, err := t.Object(key)
	if err != nil {
		return nil, err
	}
	return t.MeshObject(o, filter), nil
}

// MeshObject returns the stitched mesh of the arcs used by the object's
// boundary-bearing geometries, each arc once. A nil filter keeps every arc;
// otherwise filter is called with the first and last geometries recorded for
// the arc — identical when only one geometry uses it — and the arc is kept
// when filter returns true. filter(a, b) { return a != b } therefore keeps
// interior borders, filter(a, b) { return a == b } exterior ones.
func (t *Topology) MeshObject(o *Geometry, filter func(a, b *Geometry) bool) *geojson.Geometry {
	w := &meshWalk{geomsByArc: make(map[int][]meshRecord)}
	w.geometry(o)

	var arcs []int
	for j := 0; j <= w.maxIndex; j++ {
		records, ok := w.geomsByArc[j]
		if !ok {
			continue
		}
		if filter == nil || filter(records[0].geom, records[len(records)-1].geom) {
			arcs = append(arcs, records[0].i)
		}
	}

	return t.Geometry(&Geometry{Type: geojson.GeometryMultiLineString, MultiLineString: stitch(t, arcs)})
}

// meshRecord remembers a signed arc reference together with the geometry
// that pointed at it.
type meshRecord struct {
	i    int
	geom *Geometry
}

type meshWalk struct {
	geomsByArc map[int][]meshRecord
	maxIndex   int
	geom       *Geometry
}

func (w *meshWalk) arc(i int) {
	j := index(i)
	w.geomsByArc[j] = append(w.geomsByArc[j], meshRecord{i: i, geom: w.geom})
	if j > w.maxIndex {
		w.maxIndex = j
	}
}

func (w *meshWalk) line(arcs []int) {
	for _, i := range arcs {
		w.arc(i)
	}
}

func (w *meshWalk) rings(arcs [][]int) {
	for _, line := range arcs {
		w.line(line)
	}
}

func (w *meshWalk) geometry(o *Geometry) {
	w.geom = o
	switch o.Type {
	case geojson.GeometryCollection:
		for _, g := range o.Geometries {
			w.geometry(g)
		}
	case geojson.GeometryLineString:
		w.line(o.LineString)
	case geojson.GeometryMultiLineString:
		w.rings(o.MultiLineString)
	case geojson.GeometryPolygon:
		w.rings(o.Polygon)
	case geojson.GeometryMultiPolygon:
		for _, polygon := range o.MultiPolygon {
			w.rings(polygon)
		}
	}
}
