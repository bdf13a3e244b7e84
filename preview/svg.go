// Package preview renders a decoded feature collection as a minimal SVG
// image, for eyeballing the output of the topology operators.
package preview

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// Render draws the collection into a size-by-size viewport, fitted to the
// collection's extent with the y axis flipped (SVG grows downward).
func Render(fc *geojson.FeatureCollection, size float64) []byte {
	scale := fitViewport(fc, size)

	buf := bytes.NewBufferString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g">`, size, size))
	for _, feature := range fc.Features {
		drawGeometry(buf, feature.Geometry, scale)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

type scaleFunc func(x, y float64) (float64, float64)

// fitViewport maps the collection's bounding box onto a square viewport,
// preserving aspect ratio.
func fitViewport(fc *geojson.FeatureCollection, size float64) scaleFunc {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)

	var collect func(g *geojson.Geometry)
	fold := func(p []float64) {
		x0 = math.Min(x0, p[0])
		y0 = math.Min(y0, p[1])
		x1 = math.Max(x1, p[0])
		y1 = math.Max(y1, p[1])
	}
	collect = func(g *geojson.Geometry) {
		for _, p := range flatten(g, collect) {
			fold(p)
		}
	}
	for _, f := range fc.Features {
		collect(f.Geometry)
	}

	extent := math.Max(x1-x0, y1-y0)
	if extent <= 0 || math.IsInf(extent, 0) {
		return func(x, y float64) (float64, float64) { return x, y }
	}
	k := size / extent

	return func(x, y float64) (float64, float64) {
		return (x - x0) * k, size - (y-y0)*k
	}
}

// flatten returns the geometry's own coordinates; collection members are
// handed back to the caller via recurse.
func flatten(g *geojson.Geometry, recurse func(*geojson.Geometry)) [][]float64 {
	switch g.Type {
	case geojson.GeometryPoint:
		return [][]float64{g.Point}
	case geojson.GeometryMultiPoint:
		return g.MultiPoint
	case geojson.GeometryLineString:
		return g.LineString
	case geojson.GeometryMultiLineString:
		return flattenLines(g.MultiLineString)
	case geojson.GeometryPolygon:
		return flattenLines(g.Polygon)
	case geojson.GeometryMultiPolygon:
		var ps [][]float64
		for _, polygon := range g.MultiPolygon {
			ps = append(ps, flattenLines(polygon)...)
		}
		return ps
	case geojson.GeometryCollection:
		for _, member := range g.Geometries {
			recurse(member)
		}
	}
	return nil
}

func flattenLines(lines [][][]float64) [][]float64 {
	var ps [][]float64
	for _, line := range lines {
		ps = append(ps, line...)
	}
	return ps
}

func drawGeometry(buf *bytes.Buffer, g *geojson.Geometry, sf scaleFunc) {
	switch g.Type {
	case geojson.GeometryPoint:
		drawPoint(buf, g.Point, sf)
	case geojson.GeometryMultiPoint:
		for _, p := range g.MultiPoint {
			drawPoint(buf, p, sf)
		}
	case geojson.GeometryLineString:
		drawPath(buf, [][][]float64{g.LineString}, false, sf)
	case geojson.GeometryMultiLineString:
		drawPath(buf, g.MultiLineString, false, sf)
	case geojson.GeometryPolygon:
		drawPath(buf, g.Polygon, true, sf)
	case geojson.GeometryMultiPolygon:
		for _, polygon := range g.MultiPolygon {
			drawPath(buf, polygon, true, sf)
		}
	case geojson.GeometryCollection:
		for _, member := range g.Geometries {
			drawGeometry(buf, member, sf)
		}
	}
}

func drawPoint(buf *bytes.Buffer, p []float64, sf scaleFunc) {
	x, y := sf(p[0], p[1])
	fmt.Fprintf(buf, `<circle cx="%f" cy="%f" r="1"/>`, x, y)
}

// drawPath emits one path element per line set; closed paths get a Z per
// subpath so polygon holes render with the even-odd rule.
func drawPath(buf *bytes.Buffer, lines [][][]float64, closed bool, sf scaleFunc) {
	if len(lines) == 0 {
		return
	}
	subPaths := make([]string, 0, len(lines))
	for _, line := range lines {
		sub := bytes.NewBufferString("M")
		for i, p := range line {
			x, y := sf(p[0], p[1])
			if i > 0 {
				sub.WriteString(" L")
			}
			fmt.Fprintf(sub, "%f %f", x, y)
		}
		if closed {
			sub.WriteString(" Z")
		}
		subPaths = append(subPaths, sub.String())
	}
	fmt.Fprintf(buf, `<path fill-rule="evenodd" d="%s"/>`, strings.Join(subPaths, " "))
}
