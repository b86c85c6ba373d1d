package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vod-service/ddd/domain/vo"
	"vod-service/pkg/config"
	"vod-service/pkg/errno"
)

// ResolvedStreamFile 已解析的流媒体文件
type ResolvedStreamFile struct {
	Path         string // 磁盘绝对路径
	ContentType  string
	CacheControl string
}

// StreamService 清单/切片文件解析服务。
// 解析结果必须被限制在该视频的输出根目录内。
type StreamService interface {
	// Resolve variant和file同时为空时解析master playlist，
	// 否则解析 variant/file。路径逃逸返回ErrPathRejected，
	// 文件不存在返回ErrStreamNotFound。
	Resolve(videoID, variant, file string) (*ResolvedStreamFile, error)
}

type streamServiceImpl struct {
	cfg *config.Config
}

// NewStreamService 创建流媒体解析服务
func NewStreamService(cfg *config.Config) StreamService {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &streamServiceImpl{cfg: cfg}
}

func (s *streamServiceImpl) Resolve(videoID, variant, file string) (*ResolvedStreamFile, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required: %w", errno.ErrMissingParam)
	}

	root, err := filepath.Abs(filepath.Join(s.cfg.Upload.HLSDir, videoID))
	if err != nil {
		return nil, fmt.Errorf("resolve stream root: %w", err)
	}

	relative := vo.MasterPlaylistName
	if variant != "" || file != "" {
		relative = filepath.Join(variant, file)
	}

	fullPath := filepath.Clean(filepath.Join(root, relative))

	// 规范化后的包含性检查：等于根目录，或以根目录+分隔符开头。
	// 纯前缀比较会放过共享名称前缀的兄弟目录。
	if fullPath != root && !strings.HasPrefix(fullPath, root+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q escapes video root: %w", relative, errno.ErrPathRejected)
	}
	// videoID本身不能把根目录抬出HLS树
	hlsRoot, err := filepath.Abs(s.cfg.Upload.HLSDir)
	if err != nil {
		return nil, fmt.Errorf("resolve hls root: %w", err)
	}
	if !strings.HasPrefix(root, hlsRoot+string(filepath.Separator)) {
		return nil, fmt.Errorf("video id %q escapes hls root: %w", videoID, errno.ErrPathRejected)
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("stream file %s: %w", relative, errno.ErrStreamNotFound)
	}

	contentType, cacheControl := contentPolicy(fullPath)
	return &ResolvedStreamFile{
		Path:         fullPath,
		ContentType:  contentType,
		CacheControl: cacheControl,
	}, nil
}

// contentPolicy 按扩展名决定媒体类型与缓存寿命：
// 清单可能仍在生成中，只允许短缓存；切片一次写入，长缓存。
func contentPolicy(path string) (contentType, cacheControl string) {
	switch filepath.Ext(path) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl", "public, max-age=60"
	case ".ts":
		return "video/mp2t", "public, max-age=31536000, immutable"
	default:
		return "application/octet-stream", "no-cache"
	}
}
