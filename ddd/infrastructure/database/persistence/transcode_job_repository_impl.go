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

// TranscodeJobRepositoryImpl 转码任务仓储的gorm实现
type TranscodeJobRepositoryImpl struct {
	jobDao    *dao.TranscodeJobDao
	convertor *convertor.TranscodeJobConvertor
}

// NewTranscodeJobRepository 创建转码任务仓储实例
func NewTranscodeJobRepository(db *gorm.DB) repo.TranscodeJobRepository {
	return &TranscodeJobRepositoryImpl{
		jobDao:    dao.NewTranscodeJobDao(db),
		convertor: convertor.NewTranscodeJobConvertor(),
	}
}

// Create 创建任务行
func (r *TranscodeJobRepositoryImpl) Create(ctx context.Context, job *entity.TranscodeJobEntity) error {
	jobPo, err := r.convertor.EntityToPO(job)
	if err != nil {
		return err
	}
	if err := r.jobDao.Create(ctx, jobPo); err != nil {
		return fmt.Errorf("create transcode job: %w", errno.ErrDatabase)
	}
	return nil
}

// FindPending 按创建顺序返回未完成任务
func (r *TranscodeJobRepositoryImpl) FindPending(ctx context.Context, limit int) ([]*entity.TranscodeJobEntity, error) {
	jobPos, err := r.jobDao.GetPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transcode jobs: %w", errno.ErrDatabase)
	}
	return r.convertor.POListToEntityList(jobPos)
}

// MarkDone 任务到达终态
func (r *TranscodeJobRepositoryImpl) MarkDone(ctx context.Context, videoID string) error {
	if err := r.jobDao.MarkDone(ctx, videoID); err != nil {
		return fmt.Errorf("mark transcode job done: %w", errno.ErrDatabase)
	}
	return nil
}
