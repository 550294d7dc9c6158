package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"GeoCount-App/internal/domain/model"
)

// Read ヘッダー行付きのCSVからポイントリストを読み込む
// latCol / lonCol / weightCol はヘッダーと大文字小文字を区別せず照合する。
// weightCol が空、またはヘッダーに存在しない場合、全ポイントの重みは nil になる。
// 緯度・経度が解釈できない行は出力に含めない（エラーにはしない）
func Read(r io.Reader, latCol, lonCol, weightCol string) ([]model.PointRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, model.ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("CSVヘッダーの読み込みに失敗しました: %w", err)
	}

	// BOMと前後の空白を除去した小文字名 -> 列番号
	fieldMap := make(map[string]int, len(header))
	for i, name := range header {
		fieldMap[normalizeHeader(name)] = i
	}

	latIdx, latOK := fieldMap[strings.ToLower(latCol)]
	lonIdx, lonOK := fieldMap[strings.ToLower(lonCol)]
	if !latOK || !lonOK {
		return nil, &model.MissingColumnError{Found: header}
	}

	weightIdx := -1
	if weightCol != "" {
		if idx, ok := fieldMap[strings.ToLower(weightCol)]; ok {
			weightIdx = idx
		}
	}

	var points []model.PointRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV行の読み込みに失敗しました: %w", err)
		}

		lat := parseFloatCell(cell(record, latIdx))
		lon := parseFloatCell(cell(record, lonIdx))
		if lat == nil || lon == nil {
			continue
		}

		var weight *float64
		if weightIdx >= 0 {
			weight = parseFloatCell(cell(record, weightIdx))
		}

		points = append(points, model.PointRecord{Lon: *lon, Lat: *lat, Weight: weight})
	}

	return points, nil
}

// normalizeHeader ヘッダーセルから前後空白と先頭BOMを除去して小文字化する
func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "\ufeff"))
}

// cell 列番号がレコード長を超える場合は空セルとして扱う
func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseFloatCell セルを数値として解釈する
// 末尾のパーセント記号は除去して素の数値として扱う（100で割らない）。
// 空または解釈不能なセルは nil を返す
func parseFloatCell(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
