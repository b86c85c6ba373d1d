package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vod-service/ddd/infrastructure/database/po"
)

// VideoDao 视频记录数据访问对象
type VideoDao struct {
	db *gorm.DB
}

// NewVideoDao 创建视频DAO实例
func NewVideoDao(db *gorm.DB) *VideoDao {
	return &VideoDao{db: db}
}

// Create 创建视频记录
func (d *VideoDao) Create(ctx context.Context, videoPo *po.VideoPO) error {
	return d.db.WithContext(ctx).Create(videoPo).Error
}

// GetByVideoID 根据videoId查询，未找到返回gorm.ErrRecordNotFound
func (d *VideoDao) GetByVideoID(ctx context.Context, videoID string) (*po.VideoPO, error) {
	var video po.VideoPO
	if err := d.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateByVideoID 按videoId整行更新生命周期字段
func (d *VideoDao) UpdateByVideoID(ctx context.Context, videoID string, videoPo *po.VideoPO) error {
	return d.db.WithContext(ctx).Model(&po.VideoPO{}).
		Where("video_id = ?", videoID).
		Updates(map[string]interface{}{
			"original_file_name": videoPo.OriginalFileName,
			"status":             videoPo.Status,
			"hls_path":           videoPo.HLSPath,
			"error_message":      videoPo.ErrorMessage,
			"duration":           videoPo.Duration,
			"thumbnail":          videoPo.Thumbnail,
			"updated_at":         videoPo.UpdatedAt,
		}).Error
}

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
