package gateway

import (
	"context"

	"vod-service/ddd/domain/vo"
)

// VariantEncoder 外部编码引擎网关。
type VariantEncoder interface {
	// EncodeVariant 将输入转码为单个档位的切片输出：
	// variantDir 下生成 index.m3u8 与编号切片文件。
	// 返回的错误信息携带编码器诊断输出（stderr尾部）。
	EncodeVariant(ctx context.Context, inputFile, variantDir string, spec vo.VariantSpec) error
}

// MediaProber 媒体信息探测
type MediaProber interface {
	// ProbeDuration 获取输入时长（秒），失败返回0
	ProbeDuration(ctx context.Context, inputFile string) float64

	// ExtractThumbnail 在指定时间点截取缩略图并写入 outputPath
	ExtractThumbnail(ctx context.Context, inputFile, outputPath string, atSeconds float64) error
}
