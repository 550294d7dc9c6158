package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
	"GeoCount-App/internal/infrastructure/database"
)

// PostgresResultRepository PostgreSQLを使用した分類結果リポジトリ
type PostgresResultRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresResultRepository 新しいPostgresResultRepositoryインスタンスを作成
func NewPostgresResultRepository(client *database.PostgreSQLClient) *PostgresResultRepository {
	return &PostgresResultRepository{
		client: client,
	}
}

// EnsureSchema 結果テーブルが無ければ作成する
func (r *PostgresResultRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS classification_results (
		run_id      TEXT PRIMARY KEY,
		payload     JSONB NOT NULL,
		point_count INTEGER NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL
	)`
	if _, err := r.client.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("結果テーブルの作成に失敗しました: %w", err)
	}
	return nil
}

// Put 分類結果を保存し、あわせて失効済み行を削除する
func (r *PostgresResultRepository) Put(ctx context.Context, runID string, result *model.StoredResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("分類結果の変換に失敗しました: %w", err)
	}

	query := `INSERT INTO classification_results (run_id, payload, point_count, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id) DO UPDATE
		SET payload = EXCLUDED.payload, point_count = EXCLUDED.point_count, expires_at = EXCLUDED.expires_at`
	if _, err := r.client.DB.ExecContext(ctx, query, runID, payload, result.PointCount, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("分類結果の保存に失敗しました: %w", err)
	}

	// 失効済み行の遅延削除
	if _, err := r.client.DB.ExecContext(ctx, `DELETE FROM classification_results WHERE expires_at < now()`); err != nil {
		return fmt.Errorf("失効済み結果の削除に失敗しました: %w", err)
	}

	return nil
}

// Get 指定されたrun_idの失効していない分類結果を取得する
func (r *PostgresResultRepository) Get(ctx context.Context, runID string) (*model.StoredResult, error) {
	query := `SELECT payload FROM classification_results WHERE run_id = $1 AND expires_at > now()`

	var payload []byte
	err := r.client.DB.QueryRowContext(ctx, query, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("分類結果の取得に失敗しました: %w", err)
	}

	var result model.StoredResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("payload JSONBパースエラー: %w", err)
	}

	return &result, nil
}
