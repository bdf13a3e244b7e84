package topojson

import (
	geojson "github.com/paulmach/go.geojson"
)

// Neighbors computes shared-arc adjacency between the given objects: for each
// input index i, the result holds the sorted ascending indices j != i of
// objects sharing at least one arc with object i. Points and MultiPoints are
// not sources of adjacency.
func Neighbors(objects []*Geometry) [][]int {
	indexesByArc := make(map[int][]int)
	neighbors := make([][]int, len(objects))
	for i := range neighbors {
		neighbors[i] = []int{}
	}

	var walk func(o *Geometry, i int)
	line := func(arcs []int, i int) {
		for _, a := range arcs {
			j := index(a)
			indexesByArc[j] = append(indexesByArc[j], i)
		}
	}
	polygon := func(rings [][]int, i int) {
		for _, ring := range rings {
			line(ring, i)
		}
	}
	walk = func(o *Geometry, i int) {
		switch o.Type {
		case geojson.GeometryCollection:
			for _, g := range o.Geometries {
				walk(g, i)
			}
		case geojson.GeometryLineString:
			line(o.LineString, i)
		case geojson.GeometryMultiLineString:
			polygon(o.MultiLineString, i)
		case geojson.GeometryPolygon:
			polygon(o.Polygon, i)
		case geojson.GeometryMultiPolygon:
			for _, p := range o.MultiPolygon {
				polygon(p, i)
			}
		}
	}

	for i, o := range objects {
		walk(o, i)
	}

	for _, indexes := range indexesByArc {
		for j := 0; j < len(indexes); j++ {
			for k := j + 1; k < len(indexes); k++ {
				neighbors[indexes[j]] = spliceNeighbor(neighbors[indexes[j]], indexes[k])
				neighbors[indexes[k]] = spliceNeighbor(neighbors[indexes[k]], indexes[j])
			}
		}
	}

	return neighbors
}

// spliceNeighbor inserts value into the sorted list n, keeping it sorted and
// duplicate-free.
func spliceNeighbor(n []int, value int) []int {
	i := bisect(n, value)
	if i < len(n) && n[i] == value {
		return n
	}
	n = append(n, 0)
	copy(n[i+1:], n[i:])
	n[i] = value
	return n
}

// bisect returns the leftmost insertion point for x in sorted a.
func bisect(a []int, x int) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := (lo + hi) >> 1
		if a[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
