package repo

import (
	"context"

	"vod-service/ddd/domain/entity"
)

// VideoRepository 视频记录仓储。按videoId读改写，
// 生命周期设计为同一时刻单写者，不使用乐观锁。
type VideoRepository interface {
	Create(ctx context.Context, video *entity.VideoEntity) error
	// FindByVideoID 未找到时返回 (nil, nil)
	FindByVideoID(ctx context.Context, videoID string) (*entity.VideoEntity, error)
	Update(ctx context.Context, video *entity.VideoEntity) error
}
