package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
	"GeoCount-App/internal/usecase"
)

// maxUploadBytes アップロードの上限サイズ（KML + CSV 合計 50 MB）
const maxUploadBytes = 50 << 20

// ClassifyHandler ポイント分類APIのハンドラー
type ClassifyHandler struct {
	classifyUseCase usecase.ClassifyUseCase
}

// NewClassifyHandler 新しいClassifyHandlerインスタンスを作成
func NewClassifyHandler(classifyUseCase usecase.ClassifyUseCase) *ClassifyHandler {
	return &ClassifyHandler{
		classifyUseCase: classifyUseCase,
	}
}

// PostProcess POST /process - KMLとCSVをアップロードして分類を実行
func (h *ClassifyHandler) PostProcess(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	kmlFile, err := c.FormFile("kml_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_file",
			"message": "Please upload both KML and CSV files.",
		})
		return
	}
	csvFile, err := c.FormFile("csv_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_file",
			"message": "Please upload both KML and CSV files.",
		})
		return
	}

	latCol := c.DefaultPostForm("lat_col", "LAT")
	lonCol := c.DefaultPostForm("lon_col", "LON")
	weightCol := c.DefaultPostForm("weight_col", "FF")

	kmlReader, err := kmlFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to read uploaded KML: " + err.Error(),
		})
		return
	}
	defer kmlReader.Close()

	csvReader, err := csvFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to read uploaded CSV: " + err.Error(),
		})
		return
	}
	defer csvReader.Close()

	response, err := h.classifyUseCase.Classify(c.Request.Context(), &model.ClassifyRequest{
		KML:       kmlReader,
		CSV:       csvReader,
		LatCol:    latCol,
		LonCol:    lonCol,
		WeightCol: weightCol,
	})
	if err != nil {
		status, code := classifyErrorStatus(err)
		c.JSON(status, gin.H{
			"error":   code,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetResults GET /results/:id - 保存済み分類結果のレポートを取得
func (h *ClassifyHandler) GetResults(c *gin.Context) {
	runID := c.Param("id")

	stored, err := h.classifyUseCase.GetResult(c.Request.Context(), runID)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      runID,
		"point_count": stored.PointCount,
		"results":     stored.Results,
	})
}

// GetResultsData GET /results/:id/data - 地図表示用のポリゴンGeoJSONとヒートマップデータを取得
func (h *ClassifyHandler) GetResultsData(c *gin.Context) {
	runID := c.Param("id")

	stored, err := h.classifyUseCase.GetResult(c.Request.Context(), runID)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"polygons":   json.RawMessage(stored.PolygonsGeoJSON),
		"points":     stored.HeatPoints,
		"weight_min": stored.WeightMin,
		"weight_max": stored.WeightMax,
	})
}

// DownloadCSV GET /download/:file - 分類結果レポートをCSVファイルとしてダウンロード
// :file は "<run_id>.csv" 形式
func (h *ClassifyHandler) DownloadCSV(c *gin.Context) {
	runID := strings.TrimSuffix(c.Param("file"), ".csv")

	stored, err := h.classifyUseCase.GetResult(c.Request.Context(), runID)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="polygon_counts.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(stored.ResultsCSV))
}

// respondStoreError リポジトリ起因のエラーをHTTPレスポンスに変換する
func (h *ClassifyHandler) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrResultNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Results not found. Please re-run.",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Failed to get results: " + err.Error(),
	})
}

// classifyErrorStatus 分類処理のエラーをステータスコードとエラーコードに対応付ける
// 実行を打ち切る入力不備はすべて400、それ以外（保存失敗など）は500
func classifyErrorStatus(err error) (int, string) {
	var parseErr *model.GeometryParseError
	var missingCol *model.MissingColumnError

	switch {
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, "invalid_kml"
	case errors.Is(err, model.ErrNoPolygons):
		return http.StatusBadRequest, "no_polygons"
	case errors.As(err, &missingCol):
		return http.StatusBadRequest, "missing_column"
	case errors.Is(err, model.ErrNoHeader):
		return http.StatusBadRequest, "no_header"
	case errors.Is(err, model.ErrNoValidPoints):
		return http.StatusBadRequest, "no_valid_points"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
