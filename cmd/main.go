package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"GeoCount-App/internal/domain/repository"
	"GeoCount-App/internal/handler"
	"GeoCount-App/internal/infrastructure/database"
	fsinfra "GeoCount-App/internal/infrastructure/firestore"
	repoImpl "GeoCount-App/internal/repository"
	"GeoCount-App/internal/usecase"
)

const defaultResultTTLHours = 24

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	ctx := context.Background()
	ttl := resultTTL()

	resultRepo, cleanup, err := buildResultRepository(ctx)
	if err != nil {
		log.Fatalf("結果ストアの初期化に失敗: %v", err)
	}
	defer cleanup()

	classifyUseCase := usecase.NewClassifyUseCase(resultRepo, ttl)
	classifyHandler := handler.NewClassifyHandler(classifyUseCase)

	r := gin.Default()
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "GeoCount-App"})
	})
	r.POST("/process", classifyHandler.PostProcess)
	r.GET("/results/:id", classifyHandler.GetResults)
	r.GET("/results/:id/data", classifyHandler.GetResultsData)
	r.GET("/download/:file", classifyHandler.DownloadCSV)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Println("GeoCount-App server starting on :" + port + "...")
	log.Fatal(r.Run(":" + port))
}

// resultTTL 保存結果の有効期間（RESULT_TTL_HOURS、デフォルト24時間）
func resultTTL() time.Duration {
	if v := os.Getenv("RESULT_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		fmt.Printf("Warning: invalid RESULT_TTL_HOURS %q, using default\n", v)
	}
	return defaultResultTTLHours * time.Hour
}

// buildResultRepository RESULT_STORE環境変数に応じた結果ストアを構築する
// memory（デフォルト） / postgres / firestore
func buildResultRepository(ctx context.Context) (repository.ResultRepository, func(), error) {
	switch store := os.Getenv("RESULT_STORE"); store {
	case "", "memory":
		fmt.Println("Using in-memory result store")
		return repoImpl.NewMemoryResultRepository(), func() {}, nil

	case "postgres":
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			return nil, nil, err
		}
		repo := repoImpl.NewPostgresResultRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		fmt.Println("Using PostgreSQL result store")
		return repo, func() { client.Close() }, nil

	case "firestore":
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			return nil, nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT環境変数が設定されていません")
		}
		client, err := fsinfra.NewFirestoreClient(ctx, projectID)
		if err != nil {
			return nil, nil, err
		}
		fmt.Println("Using Firestore result store")
		return repoImpl.NewFirestoreResultRepository(client.GetClient()), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("不明なRESULT_STORE: %s", store)
	}
}
