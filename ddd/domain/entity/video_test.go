package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vod-service/ddd/domain/vo"
)

func TestNewVideoEntity(t *testing.T) {
	v := NewVideoEntity("movie.mp4")

	assert.NotEmpty(t, v.VideoID())
	assert.Equal(t, "movie.mp4", v.OriginalFileName())
	assert.Equal(t, vo.VideoStatusUploaded, v.Status())
	assert.Empty(t, v.HLSPath())
	assert.Empty(t, v.ErrorMessage())
}

func TestVideoEntityUniqueIDs(t *testing.T) {
	a := NewVideoEntity("")
	b := NewVideoEntity("")
	assert.NotEqual(t, a.VideoID(), b.VideoID())
}

func TestVideoLifecycleHappyPath(t *testing.T) {
	v := NewVideoEntity("movie.mp4")

	require.NoError(t, v.BeginMerge(""))
	assert.Equal(t, vo.VideoStatusMerging, v.Status())

	require.NoError(t, v.BeginTranscode())
	assert.Equal(t, vo.VideoStatusTranscoding, v.Status())

	require.NoError(t, v.MarkReady("uploads/hls/x/master.m3u8"))
	assert.Equal(t, vo.VideoStatusReady, v.Status())
	assert.Equal(t, "uploads/hls/x/master.m3u8", v.HLSPath())
}

func TestVideoMarkReadyRequiresPath(t *testing.T) {
	v := NewVideoEntity("")
	require.NoError(t, v.BeginMerge(""))
	require.NoError(t, v.BeginTranscode())

	err := v.MarkReady("")
	assert.Error(t, err)
	assert.Equal(t, vo.VideoStatusTranscoding, v.Status())
}

func TestVideoMarkFailedRequiresMessage(t *testing.T) {
	v := NewVideoEntity("")
	assert.Error(t, v.MarkFailed(""))
	assert.Equal(t, vo.VideoStatusUploaded, v.Status())

	require.NoError(t, v.MarkFailed("disk full"))
	assert.Equal(t, vo.VideoStatusFailed, v.Status())
	assert.Equal(t, "disk full", v.ErrorMessage())
}

func TestVideoFinalStatesAreTerminal(t *testing.T) {
	v := NewVideoEntity("")
	require.NoError(t, v.MarkFailed("boom"))

	assert.Error(t, v.BeginMerge(""))
	assert.Error(t, v.BeginTranscode())
	assert.Error(t, v.MarkReady("some/path"))
	assert.Error(t, v.MarkFailed("again"))
}

func TestVideoBeginMergeSetsFileName(t *testing.T) {
	v := NewVideoEntity("")
	require.NoError(t, v.BeginMerge("late-name.mp4"))
	assert.Equal(t, "late-name.mp4", v.OriginalFileName())

	// 已有文件名时空参不覆盖
	v2 := NewVideoEntity("keep.mp4")
	require.NoError(t, v2.BeginMerge(""))
	assert.Equal(t, "keep.mp4", v2.OriginalFileName())
}

func TestVideoMarkReadyClearsError(t *testing.T) {
	now := time.Now()
	v := RestoreVideoEntity("vid-1", "a.mp4", vo.VideoStatusTranscoding, "", "old error", 0, "", now, now)
	require.NoError(t, v.MarkReady("hls/vid-1/master.m3u8"))
	assert.Empty(t, v.ErrorMessage())
}

func TestVideoSetMediaInfo(t *testing.T) {
	v := NewVideoEntity("")
	v.SetMediaInfo(12.5, "thumbs/x.jpg")
	assert.Equal(t, 12.5, v.Duration())
	assert.Equal(t, "thumbs/x.jpg", v.Thumbnail())

	// 零值与空串不覆盖已有信息
	v.SetMediaInfo(0, "")
	assert.Equal(t, 12.5, v.Duration())
	assert.Equal(t, "thumbs/x.jpg", v.Thumbnail())
}
