package topojson

import "math"

// pointTransformer maps one stored arc coordinate to plane space. A
// transformer carries per-arc accumulator state: the caller must pass i == 0
// for the first coordinate of every arc, and must not interleave arcs on the
// same instance.
type pointTransformer interface {
	transform(p []float64, i int) []float64
}

type identityTransformer struct{}

func (identityTransformer) transform(p []float64, _ int) []float64 {
	return []float64{p[0], p[1]}
}

// scaleTransformer decodes delta-encoded coordinates: stored values are
// first-difference deltas, accumulated then scaled and translated.
type scaleTransformer struct {
	x0, y0         float64
	kx, ky, dx, dy float64
}

func newScaleTransformer(tr *Transform) *scaleTransformer {
	return &scaleTransformer{
		kx: tr.Scale[0],
		ky: tr.Scale[1],
		dx: tr.Translate[0],
		dy: tr.Translate[1],
	}
}

func (s *scaleTransformer) transform(p []float64, i int) []float64 {
	if i == 0 {
		s.x0 = 0
		s.y0 = 0
	}
	s.x0 += p[0]
	s.y0 += p[1]
	return []float64{s.x0*s.kx + s.dx, s.y0*s.ky + s.dy}
}

// transformer returns a fresh transformer for this topology.
func (t *Topology) transformer() pointTransformer {
	if t.Transform != nil {
		return newScaleTransformer(t.Transform)
	}
	return identityTransformer{}
}

// scaleUntransformer is the inverse of scaleTransformer: it maps plane
// coordinates back to rounded, delta-encoded grid coordinates. Same per-arc
// reset contract as pointTransformer.
type scaleUntransformer struct {
	x0, y0         float64
	kx, ky, dx, dy float64
}

func newScaleUntransformer(tr *Transform) *scaleUntransformer {
	return &scaleUntransformer{
		kx: tr.Scale[0],
		ky: tr.Scale[1],
		dx: tr.Translate[0],
		dy: tr.Translate[1],
	}
}

func (s *scaleUntransformer) untransform(p []float64, i int) []float64 {
	if i == 0 {
		s.x0 = 0
		s.y0 = 0
	}
	x1 := math.Floor((p[0]-s.dx)/s.kx + 0.5)
	y1 := math.Floor((p[1]-s.dy)/s.ky + 0.5)
	out := []float64{x1 - s.x0, y1 - s.y0}
	s.x0 = x1
	s.y0 = y1
	return out
}
