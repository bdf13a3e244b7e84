package topojson

import (
	geojson "github.com/paulmach/go.geojson"
)

// MergeKey dissolves the shared boundaries between the polygons of the named
// GeometryCollection object and returns the result as a GeoJSON MultiPolygon
// geometry. A non-collection object is ErrTypeMismatch.
func (t *Topology) MergeKey(key string) (*geojson.Geometry, error) {
	o, err := t.Object(key)
	if err != nil {
		return nil, err
	}
	if o.Type != geojson.GeometryCollection {
		return nil, ErrTypeMismatch
	}
	return t.Merge(o.Geometries)
}

// Merge dissolves the shared boundaries between all polygons found in the
// given objects. Polygons that share at least one arc, transitively, are
// grouped; each group's outline is the stitched set of arcs used by exactly
// one of its polygons. Non-polygon geometries are ignored.
func (t *Topology) Merge(objects []*Geometry) (*geojson.Geometry, error) {
	g, err := t.mergeArcs(objects)
	if err != nil {
		return nil, err
	}
	return t.Geometry(g), nil
}

// mergePolygon is one extracted polygon (its rings of arc indices) plus the
// scratch visited flag used while grouping. The flag keys grouping off
// identity, not structure: two structurally equal polygons stay distinct.
type mergePolygon struct {
	rings   [][]int
	visited bool
}

type merger struct {
	polygons      []*mergePolygon
	polygonsByArc map[int][]*mergePolygon
}

func (t *Topology) mergeArcs(objects []*Geometry) (*Geometry, error) {
	m := &merger{polygonsByArc: make(map[int][]*mergePolygon)}
	for _, o := range objects {
		m.geometry(o)
	}

	var groups [][]*mergePolygon
	for _, polygon := range m.polygons {
		if polygon.visited {
			continue
		}
		polygon.visited = true
		group := []*mergePolygon{}
		neighbors := []*mergePolygon{polygon}
		for len(neighbors) > 0 {
			p := neighbors[len(neighbors)-1]
			neighbors = neighbors[:len(neighbors)-1]
			group = append(group, p)
			for _, ring := range p.rings {
				for _, arc := range ring {
					for _, q := range m.polygonsByArc[index(arc)] {
						if !q.visited {
							q.visited = true
							neighbors = append(neighbors, q)
						}
					}
				}
			}
		}
		groups = append(groups, group)
	}

	var polygons [][][]int
	for _, group := range groups {
		// Boundary arcs: those incident to exactly one polygon in the
		// incidence index over all input polygons, in the direction they
		// appeared.
		var arcs []int
		for _, p := range group {
			for _, ring := range p.rings {
				for _, arc := range ring {
					if len(m.polygonsByArc[index(arc)]) < 2 {
						arcs = append(arcs, arc)
					}
				}
			}
		}

		rings := stitch(t, arcs)

		// The ring of largest planar area leads; the rest are holes.
		if n := len(rings); n > 1 {
			k, err := t.ringArea(rings[0])
			if err != nil {
				return nil, err
			}
			for i := 1; i < n; i++ {
				ki, err := t.ringArea(rings[i])
				if err != nil {
					return nil, err
				}
				if ki > k {
					rings[0], rings[i] = rings[i], rings[0]
					k = ki
				}
			}
		}

		if len(rings) > 0 {
			polygons = append(polygons, rings)
		}
	}

	return &Geometry{Type: geojson.GeometryMultiPolygon, MultiPolygon: polygons}, nil
}

func (m *merger) geometry(o *Geometry) {
	switch o.Type {
	case geojson.GeometryCollection:
		for _, g := range o.Geometries {
			m.geometry(g)
		}
	case geojson.GeometryPolygon:
		m.extract(o.Polygon)
	case geojson.GeometryMultiPolygon:
		for _, polygon := range o.MultiPolygon {
			m.extract(polygon)
		}
	}
}

func (m *merger) extract(rings [][]int) {
	p := &mergePolygon{rings: rings}
	for _, ring := range rings {
		for _, arc := range ring {
			j := index(arc)
			m.polygonsByArc[j] = append(m.polygonsByArc[j], p)
		}
	}
	m.polygons = append(m.polygons, p)
}

// ringArea reconstructs a single ring and returns its absolute planar area
// by the shoelace formula (twice the geometric area; only compared).
func (t *Topology) ringArea(ring []int) (float64, error) {
	g := t.Geometry(&Geometry{Type: geojson.GeometryPolygon, Polygon: [][]int{ring}})
	if g == nil || g.Type != geojson.GeometryPolygon {
		return 0, ErrNonPolygonArea
	}
	return planarRingArea(g.Polygon[0]), nil
}

func planarRingArea(ring [][]float64) float64 {
	area := 0.0
	a := ring[len(ring)-1]
	for _, b := range ring {
		area += a[0]*b[1] - a[1]*b[0]
		a = b
	}
	if area < 0 {
		return -area
	}
	return area
}
