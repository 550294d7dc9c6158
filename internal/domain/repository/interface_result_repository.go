package repository

import (
	"context"
	"errors"
	"time"

	"GeoCount-App/internal/domain/model"
)

// ErrResultNotFound 指定されたrun_idの結果が存在しない、または有効期限切れ
var ErrResultNotFound = errors.New("分類結果が見つかりません（有効期限切れまたは無効なID）")

// ResultRepository 分類結果の保存・取得を担うリポジトリ
// 保存された結果はttl経過後に取得できなくなる（明示的な失効ポリシー）。
// 失効済みエントリの物理削除のタイミングは実装依存
type ResultRepository interface {
	// Put 分類結果をrun_idをキーとして保存する
	Put(ctx context.Context, runID string, result *model.StoredResult, ttl time.Duration) error

	// Get 指定されたrun_idの分類結果を取得する
	// 存在しない・失効済みの場合は ErrResultNotFound を返す
	Get(ctx context.Context, runID string) (*model.StoredResult, error)
}
