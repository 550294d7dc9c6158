package service

import (
	"github.com/paulmach/orb"

	"GeoCount-App/internal/domain/model"
)

// ContainmentService ポリゴン内包判定と集計を行うドメインサービス
// 状態を持たず、I/Oも行わない純粋な計算
type ContainmentService struct{}

// NewContainmentService 新しいContainmentServiceインスタンスを作成
func NewContainmentService() *ContainmentService {
	return &ContainmentService{}
}

// Classify 全ポリゴンに対して全ポイントを判定し、ポリゴンごとの件数と重み合計を返す
// 結果は入力ポリゴン順。重み合計はCSVの行順で加算する（浮動小数点の
// 加算順を固定し、丸め後の値を実行ごとに再現可能にするため）
func (s *ContainmentService) Classify(polygons []model.Polygon, points []model.PointRecord) []model.PolygonResult {
	results := make([]model.PolygonResult, 0, len(polygons))
	for _, poly := range polygons {
		count := 0
		weightSum := 0.0
		for _, pt := range points {
			// バウンディングボックスによる事前棄却。外周リング由来のため判定結果は変わらない
			if !poly.BBox.Contains(pt.Point()) {
				continue
			}
			if !s.Contains(poly, pt.Point()) {
				continue
			}
			count++
			if pt.Weight != nil {
				weightSum += *pt.Weight
			}
		}
		results = append(results, model.PolygonResult{
			Polygon:   poly.Name,
			Count:     count,
			WeightSum: weightSum,
		})
	}
	return results
}

// Contains 穴を考慮したポリゴン内包判定
// 外周リングの内側にあり、かつどの穴リングの内側にも無い場合に true
func (s *ContainmentService) Contains(poly model.Polygon, p orb.Point) bool {
	if !pointInRing(p, poly.Outer) {
		return false
	}
	for _, hole := range poly.Holes {
		if pointInRing(p, hole) {
			return false
		}
	}
	return true
}

// pointInRing レイキャスティング（偶奇規則）によるリング内包判定
// リングは最後の頂点から最初の頂点へ暗黙的に閉じる。頂点数3未満は常に false。
// 分母の 1e-16 は水平に近い辺でのゼロ除算を避けるための安定化項で、
// 水平辺の延長線上に正確に乗るポイントの判定は近似のままとする
func pointInRing(p orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	x, y := p[0], p[1]
	inside := false

	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if ((yi > y) != (yj > y)) && x < (xj-xi)*(y-yi)/(yj-yi+1e-16)+xi {
			inside = !inside
		}
		j = i
	}

	return inside
}
