package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vod-service/ddd/domain/vo"
)

// fakeEncoder 记录调用并在指定档位注入失败
type fakeEncoder struct {
	calls  []string
	failAt string
}

func (f *fakeEncoder) EncodeVariant(ctx context.Context, inputFile, variantDir string, spec vo.VariantSpec) error {
	f.calls = append(f.calls, spec.Name)
	if spec.Name == f.failAt {
		return fmt.Errorf("encoder exploded at %s", spec.Name)
	}
	playlist := filepath.Join(variantDir, vo.PlaylistName)
	return os.WriteFile(playlist, []byte("#EXTM3U\n"), 0o644)
}

func TestGenerateLadderWritesMasterPlaylist(t *testing.T) {
	cfg := testUploadConfig(t)
	enc := &fakeEncoder{}
	s := NewHLSService(cfg, enc)

	masterPath, err := s.GenerateLadder(context.Background(), "vid-1", "input.mp4")
	require.NoError(t, err)

	// 全部档位按阶梯顺序各编码一次
	assert.Equal(t, []string{"360p", "480p", "720p", "1080p"}, enc.calls)

	data, err := os.ReadFile(masterPath)
	require.NoError(t, err)

	expected := "#EXTM3U\n" +
		"#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=800000,RESOLUTION=640x360\n360p/index.m3u8\n" +
		"#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1200000,RESOLUTION=854x480\n480p/index.m3u8\n" +
		"#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=2500000,RESOLUTION=1280x720\n720p/index.m3u8\n" +
		"#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=5000000,RESOLUTION=1920x1080\n1080p/index.m3u8\n"
	assert.Equal(t, expected, string(data))

	assert.Equal(t, filepath.Join(cfg.Upload.HLSDir, "vid-1", vo.MasterPlaylistName), masterPath)
}

func TestGenerateLadderAbortsOnVariantFailure(t *testing.T) {
	cfg := testUploadConfig(t)
	enc := &fakeEncoder{failAt: "720p"}
	s := NewHLSService(cfg, enc)

	_, err := s.GenerateLadder(context.Background(), "vid-1", "input.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "720p")

	// 失败档位之后的档位不再编码
	assert.Equal(t, []string{"360p", "480p", "720p"}, enc.calls)

	// master playlist不产出
	_, statErr := os.Stat(filepath.Join(cfg.Upload.HLSDir, "vid-1", vo.MasterPlaylistName))
	assert.True(t, os.IsNotExist(statErr))

	// 已完成档位的目录保留
	_, statErr = os.Stat(filepath.Join(cfg.Upload.HLSDir, "vid-1", "360p", vo.PlaylistName))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(cfg.Upload.HLSDir, "vid-1", "480p", vo.PlaylistName))
	assert.NoError(t, statErr)
}
