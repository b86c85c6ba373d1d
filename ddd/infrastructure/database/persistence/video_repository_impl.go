package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/domain/repo"
	"vod-service/ddd/infrastructure/database/convertor"
	"vod-service/ddd/infrastructure/database/dao"
	"vod-service/pkg/errno"
)

// VideoRepositoryImpl 视频仓储的gorm实现
type VideoRepositoryImpl struct {
	videoDao  *dao.VideoDao
	convertor *convertor.VideoConvertor
}

// NewVideoRepository 创建视频仓储实例
func NewVideoRepository(db *gorm.DB) repo.VideoRepository {
	return &VideoRepositoryImpl{
		videoDao:  dao.NewVideoDao(db),
		convertor: convertor.NewVideoConvertor(),
	}
}

// Create 创建视频记录
func (r *VideoRepositoryImpl) Create(ctx context.Context, video *entity.VideoEntity) error {
	videoPo, err := r.convertor.EntityToPO(video)
	if err != nil {
		return err
	}
	if err := r.videoDao.Create(ctx, videoPo); err != nil {
		return fmt.Errorf("create video record: %w", errno.ErrDatabase)
	}
	return nil
}

// FindByVideoID 查询视频记录，未找到返回 (nil, nil)
func (r *VideoRepositoryImpl) FindByVideoID(ctx context.Context, videoID string) (*entity.VideoEntity, error) {
	videoPo, err := r.videoDao.GetByVideoID(ctx, videoID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query video record: %w", errno.ErrDatabase)
	}
	return r.convertor.POToEntity(videoPo)
}

// Update 按videoId更新生命周期字段
func (r *VideoRepositoryImpl) Update(ctx context.Context, video *entity.VideoEntity) error {
	videoPo, err := r.convertor.EntityToPO(video)
	if err != nil {
		return err
	}
	if err := r.videoDao.UpdateByVideoID(ctx, video.VideoID(), videoPo); err != nil {
		return fmt.Errorf("update video record: %w", errno.ErrDatabase)
	}
	return nil
}
