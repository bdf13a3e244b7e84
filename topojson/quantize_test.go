package topojson

import (
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/require"
)

func unquantizedPolygon() *Topology {
	return &Topology{
		Type:        "Topology",
		BoundingBox: []float64{0, 0, 10, 10},
		Objects: map[string]*Geometry{
			"polygon": {Type: geojson.GeometryPolygon, Polygon: [][]int{{0}}},
		},
		Arcs: [][][]float64{
			{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}},
		},
	}
}

func TestQuantize(t *testing.T) {
	topo := unquantizedPolygon()

	q, err := topo.Quantize(1e4)
	require.NoError(t, err)
	require.NotNil(t, q.Transform)
	require.Equal(t, [2]float64{10.0 / 9999, 10.0 / 9999}, q.Transform.Scale)
	require.Equal(t, [2]float64{0, 0}, q.Transform.Translate)
	require.Equal(t, [][][]float64{
		{{0, 0}, {0, 9999}, {9999, 0}, {0, -9999}, {-9999, 0}},
	}, q.Arcs)

	// Input untouched.
	require.Nil(t, topo.Transform)
	require.Equal(t, [][]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}, topo.Arcs[0])
}

func TestQuantizeRoundTrip(t *testing.T) {
	topo := unquantizedPolygon()

	q, err := topo.Quantize(1e4)
	require.NoError(t, err)

	// Decoding the quantized arc recovers every original point to within
	// half a grid cell.
	tr := newScaleTransformer(q.Transform)
	tol := q.Transform.Scale[0] / 2
	for k, p := range q.Arcs[0] {
		decoded := tr.transform(p, k)
		original := topo.Arcs[0][k]
		require.InDelta(t, original[0], decoded[0], tol)
		require.InDelta(t, original[1], decoded[1], tol)
	}
}

func TestQuantizeComputesMissingBBox(t *testing.T) {
	topo := unquantizedPolygon()
	topo.BoundingBox = nil

	q, err := topo.Quantize(1e4)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 10, 10}, q.BoundingBox)
	require.Nil(t, topo.BoundingBox)
}

func TestQuantizePointObjects(t *testing.T) {
	topo := &Topology{
		Type:        "Topology",
		BoundingBox: []float64{0, 0, 10, 10},
		Objects: map[string]*Geometry{
			"point":  {Type: geojson.GeometryPoint, Point: []float64{5, 5}},
			"points": {Type: geojson.GeometryMultiPoint, MultiPoint: [][]float64{{0, 0}, {10, 10}}},
		},
		Arcs: [][][]float64{{{0, 0}, {10, 10}}},
	}

	q, err := topo.Quantize(11)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 5}, q.Objects["point"].Point)
	require.Equal(t, [][]float64{{0, 0}, {10, 10}}, q.Objects["points"].MultiPoint)

	// Input objects untouched.
	require.Equal(t, []float64{5, 5}, topo.Objects["point"].Point)
}

func TestQuantizeCollapsedArc(t *testing.T) {
	// An arc shorter than a grid cell collapses to its first point and is
	// padded with a zero delta.
	topo := &Topology{
		Type:        "Topology",
		BoundingBox: []float64{0, 0, 10, 10},
		Objects:     map[string]*Geometry{},
		Arcs: [][][]float64{
			{{5, 5}, {5.0001, 5.0001}},
		},
	}

	q, err := topo.Quantize(100)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{50, 50}, {0, 0}}, q.Arcs[0])
}

func TestQuantizeAlreadyQuantized(t *testing.T) {
	topo := simpleTopology(&Geometry{Type: geojson.GeometryPolygon, Polygon: [][]int{{0}}})

	_, err := topo.Quantize(1e4)
	require.ErrorIs(t, err, ErrAlreadyQuantized)
}

func TestQuantizeBadN(t *testing.T) {
	topo := unquantizedPolygon()

	for _, n := range []float64{0, 1.5, math.NaN(), -2} {
		_, err := topo.Quantize(n)
		require.ErrorIs(t, err, ErrBadQuantizeN)
	}
}

func TestQuantizeDegenerateExtent(t *testing.T) {
	// A zero-width bbox axis falls back to scale 1.
	topo := &Topology{
		Type:        "Topology",
		BoundingBox: []float64{3, 0, 3, 10},
		Objects:     map[string]*Geometry{},
		Arcs:        [][][]float64{{{3, 0}, {3, 10}}},
	}

	q, err := topo.Quantize(1e4)
	require.NoError(t, err)
	require.Equal(t, float64(1), q.Transform.Scale[0])
	require.Equal(t, 10.0/9999, q.Transform.Scale[1])
}
