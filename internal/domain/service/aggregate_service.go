package service

import (
	"math"
	"sort"

	"GeoCount-App/internal/domain/model"
)

// AggregateService 集計結果を最終レポートに整形するドメインサービス
type AggregateService struct{}

// NewAggregateService 新しいAggregateServiceインスタンスを作成
func NewAggregateService() *AggregateService {
	return &AggregateService{}
}

// Aggregate 重み合計を丸めてから割合を計算し、重み合計の降順で並べ替えたレポートを返す
// 同値（重み列なしの場合は全行0）は元の文書順を保つため安定ソートを使う
func (s *AggregateService) Aggregate(results []model.PolygonResult) []model.PolygonResult {
	rows := make([]model.PolygonResult, len(results))
	copy(rows, results)

	total := 0.0
	for i := range rows {
		rows[i].WeightSum = roundTo(rows[i].WeightSum, 6)
		total += rows[i].WeightSum
	}

	for i := range rows {
		if total != 0 {
			rows[i].WeightPercent = roundTo(rows[i].WeightSum/total*100, 2)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeightSum > rows[j].WeightSum
	})

	return rows
}

// roundTo 指定桁数への四捨五入
func roundTo(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}
