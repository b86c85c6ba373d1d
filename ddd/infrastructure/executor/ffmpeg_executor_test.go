package executor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vod-service/ddd/domain/vo"
	"vod-service/pkg/config"
)

func encoderConfig() *config.Config {
	return &config.Config{
		Transcode: config.TranscodeConfig{
			FFmpeg: config.FFmpegConfig{
				BinaryPath:      "ffmpeg",
				ProbeBinaryPath: "ffprobe",
				SegmentSeconds:  5,
				GOPSize:         48,
				CRF:             20,
				AudioSampleRate: 48000,
			},
		},
	}
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag {
			require.Less(t, i+1, len(args), "flag %s has no value", flag)
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in args %v", flag, args)
	return ""
}

func TestBuildVariantArgs720p(t *testing.T) {
	e := NewFFmpegExecutor(encoderConfig())
	spec := vo.VariantSpec{Name: "720p", Height: 720, Bitrate: 2_500_000, Bandwidth: 2_500_000, Resolution: "1280x720"}

	args := e.buildVariantArgs("in.mp4", filepath.Join("out", "720p"), spec)

	assert.Equal(t, "in.mp4", argValue(t, args, "-i"))
	assert.Equal(t, "scale=-2:720", argValue(t, args, "-vf"))
	assert.Equal(t, "aac", argValue(t, args, "-c:a"))
	assert.Equal(t, "48000", argValue(t, args, "-ar"))
	assert.Equal(t, "libx264", argValue(t, args, "-c:v"))
	assert.Equal(t, "main", argValue(t, args, "-profile:v"))
	assert.Equal(t, "20", argValue(t, args, "-crf"))
	assert.Equal(t, "48", argValue(t, args, "-g"))
	assert.Equal(t, "48", argValue(t, args, "-keyint_min"))
	assert.Equal(t, "0", argValue(t, args, "-sc_threshold"))
	assert.Equal(t, "2500k", argValue(t, args, "-b:v"))
	assert.Equal(t, "2675k", argValue(t, args, "-maxrate"))
	assert.Equal(t, "3750k", argValue(t, args, "-bufsize"))
	assert.Equal(t, "5", argValue(t, args, "-hls_time"))
	assert.Equal(t, "vod", argValue(t, args, "-hls_playlist_type"))
	assert.Equal(t, "hls", argValue(t, args, "-f"))

	assert.Equal(t, filepath.Join("out", "720p", "segment_%03d.ts"), argValue(t, args, "-hls_segment_filename"))
	assert.Equal(t, filepath.Join("out", "720p", "index.m3u8"), args[len(args)-1])
	assert.Contains(t, args, "-y")
}

func TestBuildVariantArgsPerVariantRates(t *testing.T) {
	e := NewFFmpegExecutor(encoderConfig())

	for _, spec := range vo.DefaultLadder() {
		args := e.buildVariantArgs("in.mp4", spec.Name, spec)
		assert.Equal(t, spec.ScaleFilter(), argValue(t, args, "-vf"), spec.Name)
		assert.True(t, strings.HasSuffix(argValue(t, args, "-b:v"), "k"), spec.Name)
		assert.Equal(t, filepath.Join(spec.Name, "index.m3u8"), args[len(args)-1], spec.Name)
	}
}
