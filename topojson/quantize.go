package topojson

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// Quantize returns a copy of the topology whose arcs are delta-encoded
// integers on an n-by-n grid spanning the topology's bounding box. The input
// must not already carry a transform, n must be a number >= 2 (fractional
// values are floored). The input topology is left untouched.
func (t *Topology) Quantize(n float64) (*Topology, error) {
	if t.Transform != nil {
		return nil, ErrAlreadyQuantized
	}
	n = math.Floor(n)
	if math.IsNaN(n) || n < 2 {
		return nil, ErrBadQuantizeN
	}

	box := t.BoundingBox
	if len(box) < 4 {
		box = t.BBox()
	}
	x0, y0, x1, y1 := box[0], box[1], box[2], box[3]

	transform := &Transform{
		Scale:     [2]float64{1, 1},
		Translate: [2]float64{x0, y0},
	}
	if x1-x0 != 0 {
		transform.Scale[0] = (x1 - x0) / (n - 1)
	}
	if y1-y0 != 0 {
		transform.Scale[1] = (y1 - y0) / (n - 1)
	}

	q := &quantizer{un: newScaleUntransformer(transform)}

	objects := make(map[string]*Geometry, len(t.Objects))
	for key, o := range t.Objects {
		objects[key] = q.geometry(o)
	}

	arcs := make([][][]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		arcs[i] = q.arc(arc)
	}

	return &Topology{
		Type:        "Topology",
		BoundingBox: box,
		Transform:   transform,
		Objects:     objects,
		Arcs:        arcs,
	}, nil
}

type quantizer struct {
	un *scaleUntransformer
}

func (q *quantizer) point(p []float64) []float64 {
	return q.un.untransform(p, 0)
}

// geometry copies o, untransforming Point and MultiPoint coordinates in
// place; arc-referencing geometries are carried through unchanged since arc
// indices stay valid.
func (q *quantizer) geometry(o *Geometry) *Geometry {
	out := *o
	switch o.Type {
	case geojson.GeometryCollection:
		out.Geometries = make([]*Geometry, len(o.Geometries))
		for i, g := range o.Geometries {
			out.Geometries[i] = q.geometry(g)
		}
	case geojson.GeometryPoint:
		out.Point = q.point(o.Point)
	case geojson.GeometryMultiPoint:
		out.MultiPoint = make([][]float64, len(o.MultiPoint))
		for i, p := range o.MultiPoint {
			out.MultiPoint[i] = q.point(p)
		}
	}
	return &out
}

// arc untransforms every coordinate in stored order, keeping the first point
// and thereafter only points that still displace the position on the grid. A
// fully collapsed arc gets a trailing zero delta so it stays two points long.
func (q *quantizer) arc(arc [][]float64) [][]float64 {
	out := [][]float64{q.un.untransform(arc[0], 0)}
	for i := 1; i < len(arc); i++ {
		p := q.un.untransform(arc[i], i)
		if p[0] != 0 || p[1] != 0 {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		out = append(out, []float64{0, 0})
	}
	return out
}
