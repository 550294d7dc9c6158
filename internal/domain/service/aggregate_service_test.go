package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoCount-App/internal/domain/model"
)

func TestAggregate_割合と並び順(t *testing.T) {
	input := []model.PolygonResult{
		{Polygon: "A", Count: 2, WeightSum: 1.0},
		{Polygon: "B", Count: 5, WeightSum: 3.0},
		{Polygon: "C", Count: 1, WeightSum: 1.0},
	}

	report := NewAggregateService().Aggregate(input)
	require.Len(t, report, 3)

	// 重み合計の降順。同値のAとCは元の順序を保つ
	assert.Equal(t, []string{"B", "A", "C"}, []string{report[0].Polygon, report[1].Polygon, report[2].Polygon})
	assert.Equal(t, 60.0, report[0].WeightPercent)
	assert.Equal(t, 20.0, report[1].WeightPercent)
	assert.Equal(t, 20.0, report[2].WeightPercent)

	total := 0.0
	for _, row := range report {
		total += row.WeightPercent
	}
	assert.InDelta(t, 100.0, total, 0.01, "割合の合計は100%")
}

func TestAggregate_重みなしデータは割合0(t *testing.T) {
	input := []model.PolygonResult{
		{Polygon: "A", Count: 3},
		{Polygon: "B", Count: 1},
		{Polygon: "C", Count: 7},
	}

	report := NewAggregateService().Aggregate(input)
	require.Len(t, report, 3)

	// 全行がソートキー0なので文書順のまま
	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name, report[i].Polygon)
		assert.Equal(t, 0.0, report[i].WeightSum)
		assert.Equal(t, 0.0, report[i].WeightPercent)
	}
}

func TestAggregate_重み合計は6桁に丸める(t *testing.T) {
	input := []model.PolygonResult{
		{Polygon: "A", WeightSum: 1.23456789},
	}

	report := NewAggregateService().Aggregate(input)
	require.Len(t, report, 1)
	assert.Equal(t, 1.234568, report[0].WeightSum)
	assert.Equal(t, 100.0, report[0].WeightPercent)
}

func TestAggregate_入力スライスを変更しない(t *testing.T) {
	input := []model.PolygonResult{
		{Polygon: "A", WeightSum: 1.0},
		{Polygon: "B", WeightSum: 2.0},
	}

	NewAggregateService().Aggregate(input)

	assert.Equal(t, "A", input[0].Polygon)
	assert.Equal(t, 0.0, input[0].WeightPercent)
}
