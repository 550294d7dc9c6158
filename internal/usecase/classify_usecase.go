package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
	"GeoCount-App/internal/domain/service"
	"GeoCount-App/internal/infrastructure/csvsource"
	"GeoCount-App/internal/infrastructure/kml"
	repoImpl "GeoCount-App/internal/repository"
)

type ClassifyUseCase interface {
	// Classify はKMLとCSVを読み込んでポイントを分類し、結果を保存してrun_idとレポートを返す
	Classify(ctx context.Context, req *model.ClassifyRequest) (*model.ClassifyResponse, error)

	// GetResult は指定されたrun_idの保存済み分類結果を取得する
	GetResult(ctx context.Context, runID string) (*model.StoredResult, error)
}

// classifyUseCaseImpl はClassifyUseCaseの実装
type classifyUseCaseImpl struct {
	containmentService *service.ContainmentService
	aggregateService   *service.AggregateService
	resultRepo         repository.ResultRepository
	ttl                time.Duration
}

// NewClassifyUseCase は新しいClassifyUseCaseインスタンスを作成
func NewClassifyUseCase(resultRepo repository.ResultRepository, ttl time.Duration) ClassifyUseCase {
	return &classifyUseCaseImpl{
		containmentService: service.NewContainmentService(),
		aggregateService:   service.NewAggregateService(),
		resultRepo:         resultRepo,
		ttl:                ttl,
	}
}

// Classify は分類処理の主要フローを実行する
func (u *classifyUseCaseImpl) Classify(ctx context.Context, req *model.ClassifyRequest) (*model.ClassifyResponse, error) {
	log.Printf("🚀 分類処理開始 (lat=%s, lon=%s, weight=%s)", req.LatCol, req.LonCol, req.WeightCol)

	// Step 1: KMLからポリゴンを抽出
	polygons, err := kml.Parse(req.KML)
	if err != nil {
		return nil, err
	}
	if len(polygons) == 0 {
		return nil, model.ErrNoPolygons
	}

	// Step 2: CSVからポイントを読み込み
	points, err := csvsource.Read(req.CSV, req.LatCol, req.LonCol, req.WeightCol)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, model.ErrNoValidPoints
	}

	log.Printf("📍 ポリゴン%d件に対してポイント%d件を分類します", len(polygons), len(points))

	// Step 3: 内包判定と集計
	accumulated := u.containmentService.Classify(polygons, points)
	report := u.aggregateService.Aggregate(accumulated)

	// Step 4: 保存用データの組み立て
	resultsCSV, err := renderReportCSV(report)
	if err != nil {
		return nil, fmt.Errorf("レポートCSVの生成に失敗しました: %w", err)
	}

	polygonsGeoJSON, err := json.Marshal(repoImpl.PolygonsToGeoJSON(polygons))
	if err != nil {
		return nil, fmt.Errorf("GeoJSONの生成に失敗しました: %w", err)
	}

	weightMin, weightMax := repoImpl.WeightRange(points)
	stored := &model.StoredResult{
		Results:         report,
		ResultsCSV:      resultsCSV,
		PolygonsGeoJSON: polygonsGeoJSON,
		HeatPoints:      repoImpl.HeatPoints(points),
		WeightMin:       weightMin,
		WeightMax:       weightMax,
		PointCount:      len(points),
	}

	// Step 5: run_idを生成して保存
	runID := uuid.New().String()
	if err := u.resultRepo.Put(ctx, runID, stored, u.ttl); err != nil {
		return nil, fmt.Errorf("分類結果の保存に失敗しました: %w", err)
	}

	log.Printf("✅ 分類処理完了 (run_id: %s)", runID)
	return &model.ClassifyResponse{
		RunID:      runID,
		PointCount: len(points),
		Results:    report,
	}, nil
}

// GetResult は保存済み分類結果を取得する
func (u *classifyUseCaseImpl) GetResult(ctx context.Context, runID string) (*model.StoredResult, error) {
	return u.resultRepo.Get(ctx, runID)
}

// renderReportCSV はレポートを polygon, count, weight_sum, weight_percent の4列CSVに整形する
func renderReportCSV(report []model.PolygonResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"polygon", "count", "weight_sum", "weight_percent"}); err != nil {
		return "", err
	}
	for _, row := range report {
		record := []string{
			row.Polygon,
			strconv.Itoa(row.Count),
			strconv.FormatFloat(row.WeightSum, 'f', -1, 64),
			strconv.FormatFloat(row.WeightPercent, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
