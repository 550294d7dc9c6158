package repository

import (
	"context"
	"sync"
	"time"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
)

// MemoryResultRepository プロセス内メモリの分類結果リポジトリ（デフォルト実装）
// 取得時に失効チェックを行い、保存時に失効済みエントリを掃き出すことで
// 無制限な増加を防ぐ
type MemoryResultRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	result   *model.StoredResult
	expireAt time.Time
}

// NewMemoryResultRepository 新しいMemoryResultRepositoryインスタンスを作成
func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Put 分類結果を保存し、あわせて失効済みエントリを削除する
func (r *MemoryResultRepository) Put(ctx context.Context, runID string, result *model.StoredResult, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, entry := range r.entries {
		if now.After(entry.expireAt) {
			delete(r.entries, id)
		}
	}

	r.entries[runID] = memoryEntry{
		result:   result,
		expireAt: now.Add(ttl),
	}
	return nil
}

// Get 指定されたrun_idの分類結果を取得する
func (r *MemoryResultRepository) Get(ctx context.Context, runID string) (*model.StoredResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[runID]
	if !ok {
		return nil, repository.ErrResultNotFound
	}
	if r.now().After(entry.expireAt) {
		delete(r.entries, runID)
		return nil, repository.ErrResultNotFound
	}
	return entry.result, nil
}
