package convertor

import (
	"fmt"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/infrastructure/database/po"
)

// TranscodeJobConvertor 转码任务实体与持久化对象转换器
type TranscodeJobConvertor struct{}

// NewTranscodeJobConvertor 创建转码任务转换器
func NewTranscodeJobConvertor() *TranscodeJobConvertor {
	return &TranscodeJobConvertor{}
}

// EntityToPO 实体转持久化对象
func (c *TranscodeJobConvertor) EntityToPO(job *entity.TranscodeJobEntity) (*po.TranscodeJobPO, error) {
	if job == nil {
		return nil, fmt.Errorf("transcode job entity cannot be nil")
	}
	return &po.TranscodeJobPO{
		VideoID:   job.VideoID(),
		InputFile: job.InputFile(),
		Status:    string(job.Status()),
		CreatedAt: job.CreatedAt(),
		UpdatedAt: job.UpdatedAt(),
	}, nil
}

// POToEntity 持久化对象转实体
func (c *TranscodeJobConvertor) POToEntity(jobPo *po.TranscodeJobPO) (*entity.TranscodeJobEntity, error) {
	if jobPo == nil {
		return nil, fmt.Errorf("transcode job po cannot be nil")
	}
	return entity.RestoreTranscodeJobEntity(
		jobPo.VideoID,
		jobPo.InputFile,
		entity.TranscodeJobStatus(jobPo.Status),
		jobPo.CreatedAt,
		jobPo.UpdatedAt,
	), nil
}

// POListToEntityList 批量转换
func (c *TranscodeJobConvertor) POListToEntityList(pos []*po.TranscodeJobPO) ([]*entity.TranscodeJobEntity, error) {
	jobs := make([]*entity.TranscodeJobEntity, 0, len(pos))
	for _, jobPo := range pos {
		job, err := c.POToEntity(jobPo)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
