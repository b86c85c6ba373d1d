package dto

import (
	"time"

	"vod-service/ddd/domain/entity"
)

// InitUploadDto 初始化上传会话响应
type InitUploadDto struct {
	VideoID string `json:"videoId"`
}

// MergeDto 合并完成响应
type MergeDto struct {
	VideoID  string `json:"videoId"`
	FilePath string `json:"filePath"`
	Status   string `json:"status"`
}

// VideoDto 视频记录数据传输对象，键名与对外接口约定一致
type VideoDto struct {
	VideoID          string    `json:"videoId"`
	OriginalFileName string    `json:"originalFileName,omitempty"`
	Status           string    `json:"status"`
	HLSPath          string    `json:"hlsPath,omitempty"`
	ErrorMessage     string    `json:"error,omitempty"`
	Duration         float64   `json:"duration,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewVideoDto 从实体创建DTO
func NewVideoDto(video *entity.VideoEntity) *VideoDto {
	if video == nil {
		return nil
	}
	return &VideoDto{
		VideoID:          video.VideoID(),
		OriginalFileName: video.OriginalFileName(),
		Status:           video.Status().String(),
		HLSPath:          video.HLSPath(),
		ErrorMessage:     video.ErrorMessage(),
		Duration:         video.Duration(),
		Thumbnail:        video.Thumbnail(),
		CreatedAt:        video.CreatedAt(),
		UpdatedAt:        video.UpdatedAt(),
	}
}
