package repo

import (
	"context"

	"vod-service/ddd/domain/entity"
)

// TranscodeJobRepository 转码任务持久化。任务行是队列的耐久记录：
// Worker启动时会把仍为pending的任务重新投递。
type TranscodeJobRepository interface {
	Create(ctx context.Context, job *entity.TranscodeJobEntity) error
	// FindPending 按创建顺序返回未完成任务
	FindPending(ctx context.Context, limit int) ([]*entity.TranscodeJobEntity, error)
	MarkDone(ctx context.Context, videoID string) error
}
