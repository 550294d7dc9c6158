package model

import (
	"encoding/json"
	"io"
	"time"
)

// PolygonResult 1ポリゴンの集計結果
// WeightPercent は全ポリゴンの重み合計に対する割合（合計が0の場合は0）
type PolygonResult struct {
	Polygon       string  `json:"polygon"`
	Count         int     `json:"count"`
	WeightSum     float64 `json:"weight_sum"`
	WeightPercent float64 `json:"weight_percent"`
}

// ClassifyRequest 分類1回分の入力
// 列名は大文字小文字を区別せずヘッダーと照合される。WeightCol が空の場合は重みなし
type ClassifyRequest struct {
	KML       io.Reader
	CSV       io.Reader
	LatCol    string
	LonCol    string
	WeightCol string
}

// ClassifyResponse 分類処理のレスポンス
type ClassifyResponse struct {
	RunID      string          `json:"run_id"`
	PointCount int             `json:"point_count"`
	Results    []PolygonResult `json:"results"`
}

// StoredResult 保存される1回分の結果一式（地図表示・CSVダウンロード用のデータを含む）
type StoredResult struct {
	Results         []PolygonResult `json:"results"`
	ResultsCSV      string          `json:"results_csv"`
	PolygonsGeoJSON json.RawMessage `json:"polygons_geojson"`
	HeatPoints      [][3]float64    `json:"heat_points"` // Leaflet.heat が期待する [lat, lon, intensity]
	WeightMin       float64         `json:"weight_min"`
	WeightMax       float64         `json:"weight_max"`
	PointCount      int             `json:"point_count"`
}

// FirestoreStoredResult Firestoreの結果ドキュメント
// 入れ子配列（HeatPoints）はFirestoreで表現できないため、本体はJSON文字列として保持する
type FirestoreStoredResult struct {
	Payload    string    `firestore:"payload"`
	PointCount int       `firestore:"point_count"`
	ExpireAt   time.Time `firestore:"expireAt"`
}

// ToFirestoreStoredResult StoredResult を Firestore 保存用に変換
func (sr *StoredResult) ToFirestoreStoredResult(ttl time.Duration) (*FirestoreStoredResult, error) {
	payload, err := json.Marshal(sr)
	if err != nil {
		return nil, err
	}
	return &FirestoreStoredResult{
		Payload:    string(payload),
		PointCount: sr.PointCount,
		ExpireAt:   time.Now().Add(ttl),
	}, nil
}

// ToStoredResult Firestore ドキュメントから StoredResult に変換
func (fr *FirestoreStoredResult) ToStoredResult() (*StoredResult, error) {
	var sr StoredResult
	if err := json.Unmarshal([]byte(fr.Payload), &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}
