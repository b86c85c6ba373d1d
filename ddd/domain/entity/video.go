package entity

import (
	"time"

	"github.com/google/uuid"

	"vod-service/ddd/domain/vo"
)

// VideoEntity 视频聚合根。状态只能沿生命周期单向推进，
// ready 必须携带 hlsPath，failed 必须携带错误信息。
type VideoEntity struct {
	videoID          string         // 视频ID，上传init时生成
	originalFileName string         // 原始文件名（可选）
	status           vo.VideoStatus // 生命周期状态
	hlsPath          string         // master playlist 路径，仅ready时有值
	errorMessage     string         // 最近一次失败信息
	duration         float64        // 时长（秒）
	thumbnail        string         // 缩略图路径
	createdAt        time.Time      // 创建时间
	updatedAt        time.Time      // 更新时间
}

// NewVideoEntity 创建新的上传会话实体
func NewVideoEntity(originalFileName string) *VideoEntity {
	now := time.Now()
	return &VideoEntity{
		videoID:          uuid.New().String(),
		originalFileName: originalFileName,
		status:           vo.VideoStatusUploaded,
		createdAt:        now,
		updatedAt:        now,
	}
}

// RestoreVideoEntity 从持久化记录重建实体
func RestoreVideoEntity(
	videoID string,
	originalFileName string,
	status vo.VideoStatus,
	hlsPath string,
	errorMessage string,
	duration float64,
	thumbnail string,
	createdAt time.Time,
	updatedAt time.Time,
) *VideoEntity {
	return &VideoEntity{
		videoID:          videoID,
		originalFileName: originalFileName,
		status:           status,
		hlsPath:          hlsPath,
		errorMessage:     errorMessage,
		duration:         duration,
		thumbnail:        thumbnail,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Getters
func (v *VideoEntity) VideoID() string          { return v.videoID }
func (v *VideoEntity) OriginalFileName() string { return v.originalFileName }
func (v *VideoEntity) Status() vo.VideoStatus   { return v.status }
func (v *VideoEntity) HLSPath() string          { return v.hlsPath }
func (v *VideoEntity) ErrorMessage() string     { return v.errorMessage }
func (v *VideoEntity) Duration() float64        { return v.duration }
func (v *VideoEntity) Thumbnail() string        { return v.thumbnail }
func (v *VideoEntity) CreatedAt() time.Time     { return v.createdAt }
func (v *VideoEntity) UpdatedAt() time.Time     { return v.updatedAt }

// BeginMerge 进入合并阶段
func (v *VideoEntity) BeginMerge(fileName string) error {
	if !v.status.CanTransitionTo(vo.VideoStatusMerging) {
		return NewDomainError("cannot begin merge in current status: " + v.status.String())
	}
	if fileName != "" {
		v.originalFileName = fileName
	}
	v.status = vo.VideoStatusMerging
	v.updatedAt = time.Now()
	return nil
}

// BeginTranscode 进入转码阶段
func (v *VideoEntity) BeginTranscode() error {
	if !v.status.CanTransitionTo(vo.VideoStatusTranscoding) {
		return NewDomainError("cannot begin transcode in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusTranscoding
	v.updatedAt = time.Now()
	return nil
}

// MarkReady 标记转码完成，必须携带master playlist路径
func (v *VideoEntity) MarkReady(hlsPath string) error {
	if hlsPath == "" {
		return NewDomainError("ready status requires hls path")
	}
	if !v.status.CanTransitionTo(vo.VideoStatusReady) {
		return NewDomainError("cannot mark ready in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusReady
	v.hlsPath = hlsPath
	v.errorMessage = ""
	v.updatedAt = time.Now()
	return nil
}

// MarkFailed 标记失败，必须携带错误信息
func (v *VideoEntity) MarkFailed(message string) error {
	if message == "" {
		return NewDomainError("failed status requires an error message")
	}
	if !v.status.CanTransitionTo(vo.VideoStatusFailed) {
		return NewDomainError("cannot mark failed in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusFailed
	v.errorMessage = message
	v.updatedAt = time.Now()
	return nil
}

// SetMediaInfo 记录探测到的时长与缩略图
func (v *VideoEntity) SetMediaInfo(duration float64, thumbnail string) {
	if duration > 0 {
		v.duration = duration
	}
	if thumbnail != "" {
		v.thumbnail = thumbnail
	}
	v.updatedAt = time.Now()
}
