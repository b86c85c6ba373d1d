package convertor

import (
	"fmt"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/domain/vo"
	"vod-service/ddd/infrastructure/database/po"
)

// VideoConvertor 视频实体与持久化对象转换器
type VideoConvertor struct{}

// NewVideoConvertor 创建视频转换器
func NewVideoConvertor() *VideoConvertor {
	return &VideoConvertor{}
}

// EntityToPO 实体转持久化对象
func (c *VideoConvertor) EntityToPO(video *entity.VideoEntity) (*po.VideoPO, error) {
	if video == nil {
		return nil, fmt.Errorf("video entity cannot be nil")
	}
	return &po.VideoPO{
		VideoID:          video.VideoID(),
		OriginalFileName: video.OriginalFileName(),
		Status:           video.Status().String(),
		HLSPath:          video.HLSPath(),
		ErrorMessage:     video.ErrorMessage(),
		Duration:         video.Duration(),
		Thumbnail:        video.Thumbnail(),
		CreatedAt:        video.CreatedAt(),
		UpdatedAt:        video.UpdatedAt(),
	}, nil
}

// POToEntity 持久化对象转实体
func (c *VideoConvertor) POToEntity(videoPo *po.VideoPO) (*entity.VideoEntity, error) {
	if videoPo == nil {
		return nil, fmt.Errorf("video po cannot be nil")
	}
	status := vo.VideoStatus(videoPo.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid video status in store: %s", videoPo.Status)
	}
	return entity.RestoreVideoEntity(
		videoPo.VideoID,
		videoPo.OriginalFileName,
		status,
		videoPo.HLSPath,
		videoPo.ErrorMessage,
		videoPo.Duration,
		videoPo.Thumbnail,
		videoPo.CreatedAt,
		videoPo.UpdatedAt,
	), nil
}
