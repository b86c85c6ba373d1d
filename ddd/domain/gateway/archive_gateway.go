package gateway

import "context"

// UploadObject 单个待归档文件
type UploadObject struct {
	LocalPath   string
	ObjectKey   string
	ContentType string
}

// ArchiveGateway 产物归档网关。转码成功后把HLS输出树
// 备份到对象存储；归档失败不影响视频状态。
type ArchiveGateway interface {
	UploadObjects(ctx context.Context, objects []UploadObject) error
}
