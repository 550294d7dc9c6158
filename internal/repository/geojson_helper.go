package repository

import (
	"github.com/paulmach/orb/geojson"

	"GeoCount-App/internal/domain/model"
)

// PolygonsToGeoJSON 分類対象ポリゴンを GeoJSON FeatureCollection に変換
// 各Featureのpropertiesにポリゴン名を持たせる
func PolygonsToGeoJSON(polygons []model.Polygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, poly := range polygons {
		feature := geojson.NewFeature(poly.Geometry())
		feature.Properties["name"] = poly.Name
		fc.Append(feature)
	}
	return fc
}

// HeatPoints ポイントリストをヒートマップ用の [lat, lon, intensity] 配列に変換
// 重みなしポイントはintensity 0として含める
func HeatPoints(points []model.PointRecord) [][3]float64 {
	heat := make([][3]float64, 0, len(points))
	for _, pt := range points {
		intensity := 0.0
		if pt.Weight != nil {
			intensity = *pt.Weight
		}
		heat = append(heat, [3]float64{pt.Lat, pt.Lon, intensity})
	}
	return heat
}

// WeightRange 重み付きポイントの最小・最大重みを返す（UI表示用）
// 重み付きポイントが1つも無い場合はどちらも0
func WeightRange(points []model.PointRecord) (min, max float64) {
	first := true
	for _, pt := range points {
		if pt.Weight == nil {
			continue
		}
		w := *pt.Weight
		if first {
			min, max = w, w
			first = false
			continue
		}
		if w < min {
			min = w
		}
		if w > max {
			max = w
		}
	}
	return min, max
}
