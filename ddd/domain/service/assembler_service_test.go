package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vod-service/pkg/config"
	"vod-service/pkg/errno"
)

func testUploadConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	return &config.Config{
		Upload: config.UploadConfig{
			ChunkDir:     filepath.Join(base, "chunks"),
			FinalDir:     filepath.Join(base, "final"),
			HLSDir:       filepath.Join(base, "hls"),
			ThumbnailDir: filepath.Join(base, "thumbnails"),
		},
	}
}

func TestAssemblerRoundTrip(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	parts := []string{"hello ", "chunked ", "world"}
	for i, p := range parts {
		require.NoError(t, s.WriteChunk(ctx, "vid-1", i+1, strings.NewReader(p)))
	}

	finalPath, err := s.Merge(ctx, "vid-1", len(parts), "vid-1.mp4")
	require.NoError(t, err)

	data, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello chunked world", string(data))
}

func TestAssemblerMergeOrderIndependentOfWriteOrder(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	// 乱序到达，合并仍按序号升序
	require.NoError(t, s.WriteChunk(ctx, "vid-1", 3, strings.NewReader("C")))
	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("A")))
	require.NoError(t, s.WriteChunk(ctx, "vid-1", 2, strings.NewReader("B")))

	finalPath, err := s.Merge(ctx, "vid-1", 3, "out.mp4")
	require.NoError(t, err)

	data, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))
}

func TestAssemblerChunkRetransmitOverwrites(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("old-bytes")))
	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("new")))

	finalPath, err := s.Merge(ctx, "vid-1", 1, "out.mp4")
	require.NoError(t, err)

	data, err := os.ReadFile(finalPath)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAssemblerMergeMissingChunk(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("A")))
	require.NoError(t, s.WriteChunk(ctx, "vid-1", 3, strings.NewReader("C")))

	_, err := s.Merge(ctx, "vid-1", 3, "out.mp4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrChunkMissing))

	// 失败不留下半成品
	_, statErr := os.Stat(filepath.Join(cfg.Upload.FinalDir, "out.mp4"))
	assert.True(t, os.IsNotExist(statErr))

	// 暂存分片保留，补传后可重试
	_, statErr = os.Stat(filepath.Join(cfg.Upload.ChunkDir, "vid-1", "1.part"))
	assert.NoError(t, statErr)
}

func TestAssemblerMergeZeroChunks(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)

	_, err := s.Merge(context.Background(), "vid-1", 0, "out.mp4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrChunkMissing))

	_, statErr := os.Stat(filepath.Join(cfg.Upload.FinalDir, "out.mp4"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssemblerMergeCleansStaging(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("A")))
	_, err := s.Merge(ctx, "vid-1", 1, "out.mp4")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(cfg.Upload.ChunkDir, "vid-1"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssemblerRejectsBadVideoID(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`, "."} {
		err := s.WriteChunk(ctx, id, 1, strings.NewReader("x"))
		assert.Error(t, err, "video id %q should be rejected", id)

		_, err = s.Merge(ctx, id, 1, "out.mp4")
		assert.Error(t, err, "video id %q should be rejected", id)
	}
}

func TestAssemblerRejectsBadChunkNumber(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)

	err := s.WriteChunk(context.Background(), "vid-1", 0, strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrInvalidParam))
}

func TestAssemblerRejectsBadFileName(t *testing.T) {
	cfg := testUploadConfig(t)
	s := NewAssemblerService(cfg)
	ctx := context.Background()

	require.NoError(t, s.WriteChunk(ctx, "vid-1", 1, strings.NewReader("A")))

	for _, name := range []string{"", "../escape.mp4", "a/b.mp4"} {
		_, err := s.Merge(ctx, "vid-1", 1, name)
		assert.Error(t, err, "file name %q should be rejected", name)
	}
}
