package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoCount-App/internal/domain/model"
	"GeoCount-App/internal/domain/repository"
)

func storedFixture() *model.StoredResult {
	return &model.StoredResult{
		Results:    []model.PolygonResult{{Polygon: "A", Count: 1, WeightSum: 2.0, WeightPercent: 100.0}},
		ResultsCSV: "polygon,count,weight_sum,weight_percent\nA,1,2,100\n",
		PointCount: 1,
	}
}

func TestMemoryResultRepository_保存と取得(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository()

	require.NoError(t, repo.Put(ctx, "run-1", storedFixture(), time.Hour))

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.PointCount)
	assert.Equal(t, "A", got.Results[0].Polygon)

	_, err = repo.Get(ctx, "run-2")
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
}

func TestMemoryResultRepository_TTL失効(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository()

	current := time.Now()
	repo.now = func() time.Time { return current }

	require.NoError(t, repo.Put(ctx, "run-1", storedFixture(), time.Hour))

	// 失効前は取得できる
	_, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)

	// 失効後は取得できない
	current = current.Add(2 * time.Hour)
	_, err = repo.Get(ctx, "run-1")
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
}

func TestMemoryResultRepository_保存時に失効エントリを掃き出す(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository()

	current := time.Now()
	repo.now = func() time.Time { return current }

	require.NoError(t, repo.Put(ctx, "old", storedFixture(), time.Hour))

	current = current.Add(2 * time.Hour)
	require.NoError(t, repo.Put(ctx, "new", storedFixture(), time.Hour))

	assert.Len(t, repo.entries, 1, "失効済みエントリは保存時に削除される")
	_, ok := repo.entries["new"]
	assert.True(t, ok)
}
