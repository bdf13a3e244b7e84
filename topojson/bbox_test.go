package topojson

import (
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/require"
)

func TestBBoxOfArcs(t *testing.T) {
	topo := simpleTopology(&Geometry{Type: geojson.GeometryPolygon, Polygon: [][]int{{0}}})

	require.Equal(t, []float64{0, 0, 1, 1}, topo.BBox())
}

func TestBBoxIncludesIntermediatePoints(t *testing.T) {
	// The spike at (5,9) is an interior arc vertex, not an endpoint.
	topo := lineTopology([][][]float64{
		{{0, 0}, {5, 9}, {10, 0}},
	})
	topo.Objects = map[string]*Geometry{}

	require.Equal(t, []float64{0, 0, 10, 9}, topo.BBox())
}

func TestBBoxIncludesPointObjects(t *testing.T) {
	topo := &Topology{
		Type: "Topology",
		Objects: map[string]*Geometry{
			"collection": {
				Type: geojson.GeometryCollection,
				Geometries: []*Geometry{
					{Type: geojson.GeometryPoint, Point: []float64{-5, 2}},
					{Type: geojson.GeometryMultiPoint, MultiPoint: [][]float64{{20, 20}}},
				},
			},
		},
		Arcs: [][][]float64{{{0, 0}, {1, 1}}},
	}

	require.Equal(t, []float64{-5, 0, 20, 20}, topo.BBox())
}

func TestBBoxEmptyTopology(t *testing.T) {
	topo := &Topology{Type: "Topology", Objects: map[string]*Geometry{}}

	box := topo.BBox()
	require.True(t, math.IsInf(box[0], 1))
	require.True(t, math.IsInf(box[1], 1))
	require.True(t, math.IsInf(box[2], -1))
	require.True(t, math.IsInf(box[3], -1))
}

func TestBBoxMonotonicity(t *testing.T) {
	// The box of the whole equals the fold of the boxes of the parts.
	left := lineTopology([][][]float64{{{0, 0}, {1, 5}}})
	left.Objects = map[string]*Geometry{}
	right := lineTopology([][][]float64{{{4, -2}, {6, 1}}})
	right.Objects = map[string]*Geometry{}
	both := lineTopology([][][]float64{{{0, 0}, {1, 5}}, {{4, -2}, {6, 1}}})
	both.Objects = map[string]*Geometry{}

	l, r, b := left.BBox(), right.BBox(), both.BBox()
	require.Equal(t, []float64{
		math.Min(l[0], r[0]),
		math.Min(l[1], r[1]),
		math.Max(l[2], r[2]),
		math.Max(l[3], r[3]),
	}, b)
}
