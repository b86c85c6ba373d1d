package vo

import "fmt"

// VariantSpec 输出档位配置：目标高度、视频码率与清单中声明的带宽。
type VariantSpec struct {
	Name       string // 档位名，同时作为输出子目录名，如 "720p"
	Height     int    // 目标高度，宽度按比例取偶数
	Bitrate    int    // 视频码率 bps
	Bandwidth  int    // master playlist 中声明的 BANDWIDTH
	Resolution string // master playlist 中声明的 RESOLUTION，如 "1280x720"
}

// TargetBitrateK 目标码率，kbps整数
func (v VariantSpec) TargetBitrateK() int { return v.Bitrate / 1000 }

// MaxrateK 峰值码率，目标码率的1.07倍
func (v VariantSpec) MaxrateK() int { return v.Bitrate * 107 / 100 / 1000 }

// BufsizeK 码率缓冲，目标码率的1.5倍
func (v VariantSpec) BufsizeK() int { return v.Bitrate * 3 / 2 / 1000 }

// ScaleFilter 高度缩放滤镜，宽度自动取偶
func (v VariantSpec) ScaleFilter() string { return fmt.Sprintf("scale=-2:%d", v.Height) }

// PlaylistName 档位索引清单文件名
const PlaylistName = "index.m3u8"

// MasterPlaylistName 主清单文件名
const MasterPlaylistName = "master.m3u8"

// SegmentFilePattern 切片文件名模板
const SegmentFilePattern = "segment_%03d.ts"

// DefaultLadder 固定的四档转码阶梯，按输出顺序排列。
// master playlist 中的条目顺序必须与此一致。
func DefaultLadder() []VariantSpec {
	return []VariantSpec{
		{Name: "360p", Height: 360, Bitrate: 800_000, Bandwidth: 800_000, Resolution: "640x360"},
		{Name: "480p", Height: 480, Bitrate: 1_200_000, Bandwidth: 1_200_000, Resolution: "854x480"},
		{Name: "720p", Height: 720, Bitrate: 2_500_000, Bandwidth: 2_500_000, Resolution: "1280x720"},
		{Name: "1080p", Height: 1080, Bitrate: 5_000_000, Bandwidth: 5_000_000, Resolution: "1920x1080"},
	}
}
