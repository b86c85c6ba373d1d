package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vod-service/ddd/domain/gateway"
	"vod-service/ddd/domain/vo"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
)

// HLSService HLS阶梯转码服务接口
type HLSService interface {
	// GenerateLadder 顺序转码全部档位并生成master playlist，
	// 返回master playlist路径。任一档位失败立即中止剩余档位，
	// 已产出的档位目录保留在磁盘上。
	GenerateLadder(ctx context.Context, videoID, inputFile string) (string, error)
}

// hlsServiceImpl HLS阶梯转码服务实现
type hlsServiceImpl struct {
	cfg     *config.Config
	encoder gateway.VariantEncoder
	ladder  []vo.VariantSpec
}

// NewHLSService 创建HLS阶梯转码服务
func NewHLSService(cfg *config.Config, encoder gateway.VariantEncoder) HLSService {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &hlsServiceImpl{
		cfg:     cfg,
		encoder: encoder,
		ladder:  vo.DefaultLadder(),
	}
}

func (h *hlsServiceImpl) GenerateLadder(ctx context.Context, videoID, inputFile string) (string, error) {
	outputDir := filepath.Join(h.cfg.Upload.HLSDir, videoID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	// 逐档串行编码：限制单任务的峰值CPU/内存占用
	for _, variant := range h.ladder {
		logger.Infof("transcoding variant video_id=%s variant=%s resolution=%s", videoID, variant.Name, variant.Resolution)

		variantDir := filepath.Join(outputDir, variant.Name)
		if err := os.MkdirAll(variantDir, 0o755); err != nil {
			return "", fmt.Errorf("create variant dir %s: %w", variant.Name, err)
		}
		if err := h.encoder.EncodeVariant(ctx, inputFile, variantDir, variant); err != nil {
			// 中止剩余阶梯，已完成档位的目录保留
			return "", fmt.Errorf("variant %s: %w", variant.Name, err)
		}

		logger.Infof("variant finished video_id=%s variant=%s", videoID, variant.Name)
	}

	masterPath := filepath.Join(outputDir, vo.MasterPlaylistName)
	if err := os.WriteFile(masterPath, []byte(masterManifest(h.ladder)), 0o644); err != nil {
		return "", fmt.Errorf("write master playlist: %w", err)
	}
	return masterPath, nil
}

// masterManifest 生成master playlist内容。
// 条目顺序与阶梯顺序严格一致。
func masterManifest(ladder []vo.VariantSpec) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, variant := range ladder {
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=%d,RESOLUTION=%s\n", variant.Bandwidth, variant.Resolution)
		fmt.Fprintf(&b, "%s/%s\n", variant.Name, vo.PlaylistName)
	}
	return b.String()
}
