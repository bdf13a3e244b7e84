package preview

import (
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyCollection(t *testing.T) {
	svg := string(Render(geojson.NewFeatureCollection(), 400))
	require.True(t, strings.HasPrefix(svg, `<svg`))
	require.True(t, strings.HasSuffix(svg, `</svg>`))
	require.Contains(t, svg, `width="400"`)
}

func TestRenderPolygon(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewFeature(geojson.NewPolygonGeometry([][][]float64{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
	})))

	svg := string(Render(fc, 100))
	require.Contains(t, svg, `<path`)
	require.Contains(t, svg, ` Z`)
	// The square fills the viewport: its corners land on the viewport corners,
	// with the y axis flipped.
	require.Contains(t, svg, `M0.000000 100.000000`)
	require.Contains(t, svg, `L100.000000 0.000000`)
}

func TestRenderLineStringIsNotClosed(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewFeature(geojson.NewLineStringGeometry([][]float64{
		{0, 0}, {5, 5},
	})))

	svg := string(Render(fc, 100))
	require.Contains(t, svg, `<path`)
	require.NotContains(t, svg, `Z`)
}

func TestRenderPoint(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewFeature(geojson.NewPointGeometry([]float64{1, 1})))
	fc.AddFeature(geojson.NewFeature(geojson.NewLineStringGeometry([][]float64{
		{0, 0}, {2, 2},
	})))

	svg := string(Render(fc, 100))
	require.Contains(t, svg, `<circle`)
}

func TestRenderPolygonWithHole(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewFeature(geojson.NewPolygonGeometry([][][]float64{
		{{0, 0}, {9, 0}, {9, 9}, {0, 9}, {0, 0}},
		{{3, 3}, {6, 3}, {6, 6}, {3, 6}, {3, 3}},
	})))

	svg := string(Render(fc, 90))
	// One path, two closed subpaths.
	require.Equal(t, 1, strings.Count(svg, `<path`))
	require.Equal(t, 2, strings.Count(svg, `Z`))
}
