package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vod-service/pkg/config"
	"vod-service/pkg/errno"
	"vod-service/pkg/logger"
)

// AssemblerService 分片装配服务：按(videoId, 序号)落盘分片，
// 合并时按序号升序拼接为完整文件。
type AssemblerService interface {
	// WriteChunk 保存单个分片，重传同一序号时覆盖写
	WriteChunk(ctx context.Context, videoID string, chunkNumber int, r io.Reader) error

	// Merge 按 1..totalChunks 升序拼接分片，成功后清理暂存目录，
	// 返回合并文件路径。任一序号缺失立即失败。
	// 完整性由调用方保证：这里只检查"文件i是否存在"。
	Merge(ctx context.Context, videoID string, totalChunks int, fileName string) (string, error)
}

type assemblerServiceImpl struct {
	cfg *config.Config
}

// NewAssemblerService 创建分片装配服务
func NewAssemblerService(cfg *config.Config) AssemblerService {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &assemblerServiceImpl{cfg: cfg}
}

func (s *assemblerServiceImpl) WriteChunk(ctx context.Context, videoID string, chunkNumber int, r io.Reader) error {
	if err := validateVideoID(videoID); err != nil {
		return err
	}
	if chunkNumber < 1 {
		return fmt.Errorf("chunk number must be >= 1, got %d: %w", chunkNumber, errno.ErrInvalidParam)
	}
	if r == nil {
		return fmt.Errorf("empty chunk payload: %w", errno.ErrUploadError)
	}

	chunkDir := s.chunkDir(videoID)
	if err := os.MkdirAll(chunkDir, 0o755); err != nil {
		return fmt.Errorf("create chunk dir: %w", err)
	}

	chunkPath := filepath.Join(chunkDir, chunkFileName(chunkNumber))
	f, err := os.Create(chunkPath)
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(chunkPath)
		return fmt.Errorf("write chunk %d: %w", chunkNumber, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chunk file: %w", err)
	}
	return nil
}

func (s *assemblerServiceImpl) Merge(ctx context.Context, videoID string, totalChunks int, fileName string) (string, error) {
	if err := validateVideoID(videoID); err != nil {
		return "", err
	}
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", fmt.Errorf("invalid destination file name %q: %w", fileName, errno.ErrInvalidParam)
	}

	chunkDir := s.chunkDir(videoID)
	finalDir := s.cfg.Upload.FinalDir
	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		return "", fmt.Errorf("create final dir: %w", err)
	}

	if totalChunks < 1 {
		// 声明为0个分片时，第一个期望分片即缺失
		return "", fmt.Errorf("total chunks %d for video %s: %w", totalChunks, videoID, errno.ErrChunkMissing)
	}

	finalPath := filepath.Join(finalDir, fileName)
	out, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("create merged file: %w", err)
	}

	// 严格按序号升序读取，重建原始字节流
	for i := 1; i <= totalChunks; i++ {
		if err := appendChunk(out, filepath.Join(chunkDir, chunkFileName(i))); err != nil {
			_ = out.Close()
			_ = os.Remove(finalPath)
			if os.IsNotExist(err) {
				return "", fmt.Errorf("chunk %d of %d for video %s: %w", i, totalChunks, videoID, errno.ErrChunkMissing)
			}
			return "", fmt.Errorf("append chunk %d: %w", i, err)
		}
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close merged file: %w", err)
	}

	if err := os.RemoveAll(chunkDir); err != nil {
		logger.Warnf("chunk staging cleanup failed video_id=%s error=%s", videoID, err.Error())
	}
	return finalPath, nil
}

func (s *assemblerServiceImpl) chunkDir(videoID string) string {
	return filepath.Join(s.cfg.Upload.ChunkDir, videoID)
}

func chunkFileName(n int) string {
	return strconv.Itoa(n) + ".part"
}

func appendChunk(out *os.File, chunkPath string) error {
	in, err := os.Open(chunkPath)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(out, in)
	return err
}

func validateVideoID(videoID string) error {
	if videoID == "" {
		return fmt.Errorf("video id is required: %w", errno.ErrMissingParam)
	}
	if strings.ContainsAny(videoID, `/\`) || videoID == "." || videoID == ".." {
		return fmt.Errorf("invalid video id %q: %w", videoID, errno.ErrInvalidParam)
	}
	return nil
}
