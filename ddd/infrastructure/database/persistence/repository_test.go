package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/domain/vo"
	"vod-service/ddd/infrastructure/database/po"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&po.VideoPO{}, &po.TranscodeJobPO{}))
	return db
}

func TestVideoRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	video := entity.NewVideoEntity("movie.mp4")
	require.NoError(t, repo.Create(ctx, video))

	loaded, err := repo.FindByVideoID(ctx, video.VideoID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, video.VideoID(), loaded.VideoID())
	assert.Equal(t, "movie.mp4", loaded.OriginalFileName())
	assert.Equal(t, vo.VideoStatusUploaded, loaded.Status())
}

func TestVideoRepositoryFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)

	loaded, err := repo.FindByVideoID(context.Background(), "no-such-video")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestVideoRepositoryUpdateLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	video := entity.NewVideoEntity("movie.mp4")
	require.NoError(t, repo.Create(ctx, video))

	require.NoError(t, video.BeginMerge(""))
	require.NoError(t, video.BeginTranscode())
	video.SetMediaInfo(33.4, "thumbs/v.jpg")
	require.NoError(t, video.MarkReady("hls/v/master.m3u8"))
	require.NoError(t, repo.Update(ctx, video))

	loaded, err := repo.FindByVideoID(ctx, video.VideoID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, vo.VideoStatusReady, loaded.Status())
	assert.Equal(t, "hls/v/master.m3u8", loaded.HLSPath())
	assert.Equal(t, 33.4, loaded.Duration())
	assert.Equal(t, "thumbs/v.jpg", loaded.Thumbnail())
	assert.Empty(t, loaded.ErrorMessage())
}

func TestVideoRepositoryPersistsFailure(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	video := entity.NewVideoEntity("")
	require.NoError(t, repo.Create(ctx, video))
	require.NoError(t, video.MarkFailed("encoder exploded"))
	require.NoError(t, repo.Update(ctx, video))

	loaded, err := repo.FindByVideoID(ctx, video.VideoID())
	require.NoError(t, err)
	assert.Equal(t, vo.VideoStatusFailed, loaded.Status())
	assert.Equal(t, "encoder exploded", loaded.ErrorMessage())
}

func TestVideoRepositoryDuplicateVideoID(t *testing.T) {
	db := testDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	video := entity.NewVideoEntity("")
	require.NoError(t, repo.Create(ctx, video))
	assert.Error(t, repo.Create(ctx, video))
}

func TestTranscodeJobRepositoryPendingOrder(t *testing.T) {
	db := testDB(t)
	repo := NewTranscodeJobRepository(db)
	ctx := context.Background()

	first := entity.RestoreTranscodeJobEntity("vid-a", "a.mp4", entity.JobStatusPending,
		time.Now().Add(-2*time.Hour), time.Now().Add(-2*time.Hour))
	second := entity.RestoreTranscodeJobEntity("vid-b", "b.mp4", entity.JobStatusPending,
		time.Now().Add(-time.Hour), time.Now().Add(-time.Hour))
	done := entity.RestoreTranscodeJobEntity("vid-c", "c.mp4", entity.JobStatusDone,
		time.Now(), time.Now())

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, done))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "vid-a", pending[0].VideoID())
	assert.Equal(t, "vid-b", pending[1].VideoID())
}

func TestTranscodeJobRepositoryMarkDone(t *testing.T) {
	db := testDB(t)
	repo := NewTranscodeJobRepository(db)
	ctx := context.Background()

	job := entity.NewTranscodeJobEntity("vid-a", "a.mp4")
	require.NoError(t, repo.Create(ctx, job))
	require.NoError(t, repo.MarkDone(ctx, "vid-a"))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTranscodeJobRepositoryPendingLimit(t *testing.T) {
	db := testDB(t)
	repo := NewTranscodeJobRepository(db)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, entity.NewTranscodeJobEntity(id, id+".mp4")))
	}

	pending, err := repo.FindPending(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
