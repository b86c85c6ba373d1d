package app

import (
	"context"
	"fmt"

	"vod-service/ddd/application/dto"
	"vod-service/ddd/domain/repo"
	"vod-service/pkg/errno"
)

// VideoApp 视频查询用例
type VideoApp interface {
	// GetVideo 查询视频记录
	GetVideo(ctx context.Context, videoID string) (*dto.VideoDto, error)
}

type videoAppImpl struct {
	videoRepo repo.VideoRepository
}

// NewVideoAppWith 创建视频查询用例实例
func NewVideoAppWith(videoRepo repo.VideoRepository) VideoApp {
	return &videoAppImpl{videoRepo: videoRepo}
}

func (v *videoAppImpl) GetVideo(ctx context.Context, videoID string) (*dto.VideoDto, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video_id is required: %w", errno.ErrMissingParam)
	}
	video, err := v.videoRepo.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, errno.ErrVideoNotFound)
	}
	return dto.NewVideoDto(video), nil
}
