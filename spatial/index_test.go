package spatial

import (
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/require"
)

func collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	left := geojson.NewFeature(geojson.NewPolygonGeometry([][][]float64{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
	}))
	left.ID = "left"
	fc.AddFeature(left)

	right := geojson.NewFeature(geojson.NewPolygonGeometry([][][]float64{
		{{5, 0}, {6, 0}, {6, 1}, {5, 1}, {5, 0}},
	}))
	right.ID = "right"
	fc.AddFeature(right)

	point := geojson.NewFeature(geojson.NewPointGeometry([]float64{10, 10}))
	point.ID = "dot"
	fc.AddFeature(point)

	return fc
}

func TestIndexSearch(t *testing.T) {
	index, err := New(collection())
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())

	require.Equal(t, []string{"left"}, index.Search(0, 0, 2, 2))
	require.Equal(t, []string{"right"}, index.Search(4.5, 0, 7, 2))
	require.Equal(t, []string{"left", "right"}, index.Search(0, 0, 6, 1))
}

func TestIndexSearchDegenerateFeature(t *testing.T) {
	// A point feature has a zero-extent box but must still be findable.
	index, err := New(collection())
	require.NoError(t, err)

	require.Equal(t, []string{"dot"}, index.Search(9, 9, 11, 11))
}

func TestIndexSearchNoMatches(t *testing.T) {
	index, err := New(collection())
	require.NoError(t, err)

	require.Empty(t, index.Search(100, 100, 101, 101))
}

func TestIndexSearchNormalizesRectangle(t *testing.T) {
	index, err := New(collection())
	require.NoError(t, err)

	// Corner order must not matter.
	require.Equal(t, []string{"left"}, index.Search(2, 2, 0, 0))
}

func TestIndexFeatureWithoutID(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewFeature(geojson.NewPointGeometry([]float64{1, 1})))

	index, err := New(fc)
	require.NoError(t, err)
	require.Equal(t, []string{"feature_0"}, index.Search(0, 0, 2, 2))
}

func TestIndexEmptyCollection(t *testing.T) {
	index, err := New(geojson.NewFeatureCollection())
	require.NoError(t, err)
	require.Equal(t, 0, index.Len())
	require.Empty(t, index.Search(0, 0, 1, 1))
}
