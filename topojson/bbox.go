package topojson

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// BBox computes the bounding box [x0, y0, x1, y1] of the topology from its
// decoded arcs and its Point/MultiPoint objects. Other geometries are covered
// by the arc pass. An empty topology yields the degenerate infinity box.
func (t *Topology) BBox() []float64 {
	box := []float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}

	tr := t.transformer()
	for _, arc := range t.Arcs {
		for k, p := range arc {
			boundPoint(box, tr.transform(p, k))
		}
	}

	for _, o := range t.Objects {
		t.boundGeometry(box, o)
	}

	return box
}

func (t *Topology) boundGeometry(box []float64, o *Geometry) {
	switch o.Type {
	case geojson.GeometryCollection:
		for _, g := range o.Geometries {
			t.boundGeometry(box, g)
		}
	case geojson.GeometryPoint:
		boundPoint(box, t.transformer().transform(o.Point, 0))
	case geojson.GeometryMultiPoint:
		for _, p := range o.MultiPoint {
			boundPoint(box, t.transformer().transform(p, 0))
		}
	}
}

func boundPoint(box, p []float64) {
	if p[0] < box[0] {
		box[0] = p[0]
	}
	if p[0] > box[2] {
		box[2] = p[0]
	}
	if p[1] < box[1] {
		box[1] = p[1]
	}
	if p[1] > box[3] {
		box[3] = p[1]
	}
}
