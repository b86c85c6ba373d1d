package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vod-service/ddd/infrastructure/database/po"
)

// TranscodeJobDao 转码任务数据访问对象
type TranscodeJobDao struct {
	db *gorm.DB
}

// NewTranscodeJobDao 创建转码任务DAO实例
func NewTranscodeJobDao(db *gorm.DB) *TranscodeJobDao {
	return &TranscodeJobDao{db: db}
}

// Create 创建任务行
func (d *TranscodeJobDao) Create(ctx context.Context, jobPo *po.TranscodeJobPO) error {
	return d.db.WithContext(ctx).Create(jobPo).Error
}

// GetPending 按创建顺序查询未完成任务
func (d *TranscodeJobDao) GetPending(ctx context.Context, limit int) ([]*po.TranscodeJobPO, error) {
	var jobs []*po.TranscodeJobPO
	query := d.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkDone 任务到达终态
func (d *TranscodeJobDao) MarkDone(ctx context.Context, videoID string) error {
	return d.db.WithContext(ctx).Model(&po.TranscodeJobPO{}).
		Where("video_id = ?", videoID).
		Updates(map[string]interface{}{
			"status":     "done",
			"updated_at": time.Now(),
		}).Error
}
