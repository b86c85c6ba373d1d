package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"vod-service/ddd/domain/vo"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
)

// FFmpegExecutor implements gateway.VariantEncoder and gateway.MediaProber
// using local ffmpeg/ffprobe subprocesses.
type FFmpegExecutor struct {
	cfg *config.Config
}

func NewFFmpegExecutor(cfg *config.Config) *FFmpegExecutor {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegExecutor{cfg: cfg}
}

// EncodeVariant runs one ffmpeg invocation producing the variant's index
// playlist and numbered segments under variantDir.
func (e *FFmpegExecutor) EncodeVariant(ctx context.Context, inputFile, variantDir string, spec vo.VariantSpec) error {
	ffcfg := e.cfg.Transcode.FFmpeg
	if ffcfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ffcfg.Timeout)
		defer cancel()
	}

	args := e.buildVariantArgs(inputFile, variantDir, spec)
	cmd := exec.CommandContext(ctx, e.binary(), args...)
	logger.Debugf("ffmpeg command variant=%s command=%s %s", spec.Name, e.binary(), strings.Join(args, " "))

	if err := e.runFFmpegCommand(ctx, cmd); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", spec.Name, err)
	}
	return nil
}

// buildVariantArgs 按档位构建固定参数模板：
// 高度缩放、音频重采样、固定质量因子、确定性的关键帧间隔
// （GOP=48且关闭场景切换检测，保证各档位切片对齐）、
// 目标/峰值/缓冲码率、5秒切片的VOD播放列表。
func (e *FFmpegExecutor) buildVariantArgs(inputFile, variantDir string, spec vo.VariantSpec) []string {
	ffcfg := e.cfg.Transcode.FFmpeg
	playlistPath := filepath.Join(variantDir, vo.PlaylistName)
	segmentPattern := filepath.Join(variantDir, vo.SegmentFilePattern)

	return []string{
		"-i", inputFile,
		"-vf", spec.ScaleFilter(),
		"-c:a", "aac",
		"-ar", strconv.Itoa(ffcfg.AudioSampleRate),
		"-c:v", "libx264",
		"-profile:v", "main",
		"-crf", strconv.Itoa(ffcfg.CRF),
		"-g", strconv.Itoa(ffcfg.GOPSize),
		"-keyint_min", strconv.Itoa(ffcfg.GOPSize),
		"-sc_threshold", "0",
		"-b:v", fmt.Sprintf("%dk", spec.TargetBitrateK()),
		"-maxrate", fmt.Sprintf("%dk", spec.MaxrateK()),
		"-bufsize", fmt.Sprintf("%dk", spec.BufsizeK()),
		"-hls_time", strconv.Itoa(ffcfg.SegmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", segmentPattern,
		"-f", "hls",
		"-y",
		playlistPath,
	}
}

// runFFmpegCommand 启动子进程并收集stderr尾部，
// 失败时把诊断输出带进错误信息。
func (e *FFmpegExecutor) runFFmpegCommand(ctx context.Context, cmd *exec.Cmd) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	captureDone := make(chan struct{})
	tail := make([]string, 0, 50)
	go func() {
		defer close(captureDone)
		scanStderrTail(stderr, &tail)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-captureDone
		<-done
		return ctx.Err()
	case err := <-done:
		<-captureDone
		if err != nil {
			if len(tail) > 0 {
				return fmt.Errorf("%w: %s", err, strings.Join(tail, "\n"))
			}
			return err
		}
		return nil
	}
}

func scanStderrTail(stderr io.ReadCloser, tail *[]string) {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		b := *tail
		if len(b) >= 50 {
			b = b[1:]
		}
		b = append(b, scanner.Text())
		*tail = b
	}
}

// ProbeDuration 调用 ffprobe 获取输入时长（秒），失败则返回 0。
func (e *FFmpegExecutor) ProbeDuration(ctx context.Context, inputFile string) float64 {
	cmd := exec.CommandContext(ctx, e.probeBinary(),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputFile,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return val
}

// ExtractThumbnail 在指定时间点截取单帧缩略图
func (e *FFmpegExecutor) ExtractThumbnail(ctx context.Context, inputFile, outputPath string, atSeconds float64) error {
	cmd := exec.CommandContext(ctx, e.binary(),
		"-ss", strconv.FormatFloat(atSeconds, 'f', -1, 64),
		"-i", inputFile,
		"-vframes", "1",
		"-q:v", "3",
		"-y",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("extract thumbnail: %w, output: %s", err, string(out))
	}
	return nil
}

func (e *FFmpegExecutor) binary() string {
	if e.cfg != nil && strings.TrimSpace(e.cfg.Transcode.FFmpeg.BinaryPath) != "" {
		return e.cfg.Transcode.FFmpeg.BinaryPath
	}
	return "ffmpeg"
}

func (e *FFmpegExecutor) probeBinary() string {
	if e.cfg != nil && strings.TrimSpace(e.cfg.Transcode.FFmpeg.ProbeBinaryPath) != "" {
		return e.cfg.Transcode.FFmpeg.ProbeBinaryPath
	}
	return "ffprobe"
}
