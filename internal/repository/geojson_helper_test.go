package repository

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoCount-App/internal/domain/model"
)

func TestPolygonsToGeoJSON_変換(t *testing.T) {
	polygons := []model.Polygon{
		model.NewPolygon("donut",
			orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
			[]orb.Ring{{{4, 4}, {6, 4}, {6, 6}, {4, 6}}},
		),
		model.NewPolygon("", orb.Ring{{20, 20}, {21, 20}, {21, 21}}, nil),
	}

	fc := PolygonsToGeoJSON(polygons)
	require.Len(t, fc.Features, 2)

	assert.Equal(t, "donut", fc.Features[0].Properties["name"])
	geom, ok := fc.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, geom, 2, "穴リングもGeoJSONに含める")

	assert.Equal(t, model.UnnamedPolygon, fc.Features[1].Properties["name"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestHeatPoints_重みなしは0(t *testing.T) {
	w := 5.5
	points := []model.PointRecord{
		{Lon: 139.0, Lat: 35.0, Weight: &w},
		{Lon: 139.1, Lat: 35.1},
	}

	heat := HeatPoints(points)
	require.Len(t, heat, 2)
	assert.Equal(t, [3]float64{35.0, 139.0, 5.5}, heat[0], "ヒートマップは [lat, lon, intensity] の順")
	assert.Equal(t, [3]float64{35.1, 139.1, 0}, heat[1])
}

func TestWeightRange_範囲計算(t *testing.T) {
	w1, w2, w3 := 3.0, -1.0, 7.0
	points := []model.PointRecord{
		{Weight: &w1},
		{},
		{Weight: &w2},
		{Weight: &w3},
	}

	min, max := WeightRange(points)
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 7.0, max)

	min, max = WeightRange([]model.PointRecord{{}, {}})
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 0.0, max)
}
