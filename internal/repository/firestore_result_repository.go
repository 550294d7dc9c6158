package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
)

// resultCollection 分類結果を保存するFirestoreコレクション
// ExpireAtフィールドにコレクションのTTLポリシーを設定して物理削除する
const resultCollection = "classificationResults"

// FirestoreResultRepository Firestoreを使用した分類結果リポジトリ
type FirestoreResultRepository struct {
	client *firestore.Client
}

// NewFirestoreResultRepository 新しいFirestoreResultRepositoryインスタンスを作成
func NewFirestoreResultRepository(client *firestore.Client) repository.ResultRepository {
	return &FirestoreResultRepository{
		client: client,
	}
}

// Put 分類結果をFirestoreに保存する
func (r *FirestoreResultRepository) Put(ctx context.Context, runID string, result *model.StoredResult, ttl time.Duration) error {
	doc, err := result.ToFirestoreStoredResult(ttl)
	if err != nil {
		return fmt.Errorf("分類結果の変換に失敗しました: %w", err)
	}

	if _, err := r.client.Collection(resultCollection).Doc(runID).Set(ctx, doc); err != nil {
		log.Printf("❌ Failed to save classification result %s: %v", runID, err)
		return fmt.Errorf("分類結果の保存に失敗しました: %w", err)
	}

	log.Printf("✅ Classification result saved: %s (expires at %s)", runID, doc.ExpireAt.Format(time.RFC3339))
	return nil
}

// Get 指定されたrun_idの分類結果をFirestoreから取得する
// FirestoreのTTL削除は遅延するため、取得側でもExpireAtを確認する
func (r *FirestoreResultRepository) Get(ctx context.Context, runID string) (*model.StoredResult, error) {
	doc, err := r.client.Collection(resultCollection).Doc(runID).Get(ctx)
	if err != nil {
		// Firestoreのエラータイプをチェック
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, repository.ErrResultNotFound
		}
		return nil, fmt.Errorf("分類結果の取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreStoredResult
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	if time.Now().After(firestoreData.ExpireAt) {
		return nil, repository.ErrResultNotFound
	}

	result, err := firestoreData.ToStoredResult()
	if err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	log.Printf("✅ Classification result retrieved: %s", runID)
	return result, nil
}
