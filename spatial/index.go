// Package spatial builds an R-tree over the bounding boxes of decoded
// features, for fast rectangle queries against a reconstructed collection.
package spatial

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	geojson "github.com/paulmach/go.geojson"
)

// minExtent inflates degenerate (zero-area) bounding boxes so point features
// remain indexable.
const minExtent = 1e-9

// FeatureIndex is a queryable spatial index over a feature collection.
type FeatureIndex struct {
	tree *rtreego.Rtree
	size int
}

type indexedFeature struct {
	id   string
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	return f.rect
}

// New indexes every feature of the collection by the bounding box of its
// geometry. Features without an id are keyed by position.
func New(fc *geojson.FeatureCollection) (*FeatureIndex, error) {
	tree := rtreego.NewTree(2, 25, 50)

	size := 0
	for i, feature := range fc.Features {
		x0, y0, x1, y1, ok := geometryBounds(feature.Geometry)
		if !ok {
			continue
		}

		rect, err := rtreego.NewRect(
			rtreego.Point{x0, y0},
			[]float64{extent(x1 - x0), extent(y1 - y0)},
		)
		if err != nil {
			return nil, err
		}

		tree.Insert(&indexedFeature{id: featureID(feature, i), rect: rect})
		size++
	}

	return &FeatureIndex{tree: tree, size: size}, nil
}

// Len returns the number of indexed features.
func (ix *FeatureIndex) Len() int {
	return ix.size
}

// Search returns the ids of all features whose bounding box intersects the
// given rectangle, sorted for deterministic output.
func (ix *FeatureIndex) Search(x0, y0, x1, y1 float64) []string {
	rect, err := rtreego.NewRect(
		rtreego.Point{math.Min(x0, x1), math.Min(y0, y1)},
		[]float64{extent(math.Abs(x1 - x0)), extent(math.Abs(y1 - y0))},
	)
	if err != nil {
		return nil
	}

	matches := ix.tree.SearchIntersect(rect)
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.(*indexedFeature).id
	}
	sort.Strings(ids)
	return ids
}

func extent(d float64) float64 {
	if d < minExtent {
		return minExtent
	}
	return d
}

func featureID(feature *geojson.Feature, position int) string {
	if feature.ID != nil {
		return fmt.Sprint(feature.ID)
	}
	return fmt.Sprintf("feature_%d", position)
}

// geometryBounds folds min/max over every coordinate of the geometry.
func geometryBounds(g *geojson.Geometry) (x0, y0, x1, y1 float64, ok bool) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)

	fold := func(p []float64) {
		x0 = math.Min(x0, p[0])
		y0 = math.Min(y0, p[1])
		x1 = math.Max(x1, p[0])
		y1 = math.Max(y1, p[1])
		ok = true
	}

	var walk func(g *geojson.Geometry)
	walk = func(g *geojson.Geometry) {
		switch g.Type {
		case geojson.GeometryPoint:
			fold(g.Point)
		case geojson.GeometryMultiPoint:
			for _, p := range g.MultiPoint {
				fold(p)
			}
		case geojson.GeometryLineString:
			for _, p := range g.LineString {
				fold(p)
			}
		case geojson.GeometryMultiLineString:
			for _, line := range g.MultiLineString {
				for _, p := range line {
					fold(p)
				}
			}
		case geojson.GeometryPolygon:
			for _, ring := range g.Polygon {
				for _, p := range ring {
					fold(p)
				}
			}
		case geojson.GeometryMultiPolygon:
			for _, polygon := range g.MultiPolygon {
				for _, ring := range polygon {
					for _, p := range ring {
						fold(p)
					}
				}
			}
		case geojson.GeometryCollection:
			for _, member := range g.Geometries {
				walk(member)
			}
		}
	}
	walk(g)

	return x0, y0, x1, y1, ok
}
