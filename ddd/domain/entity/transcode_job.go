package entity

import "time"

// TranscodeJobStatus 队列任务投递状态
type TranscodeJobStatus string

const (
	// JobStatusPending 待处理，进程重启后会被重新投递
	JobStatusPending TranscodeJobStatus = "pending"
	// JobStatusDone 任务已到达终态（视频ready或failed）
	JobStatusDone TranscodeJobStatus = "done"
)

// TranscodeJobEntity 一次完整多档转码的工作单元。
// 每次成功合并恰好产生一个任务；投递语义为至少一次。
type TranscodeJobEntity struct {
	videoID   string
	inputFile string
	status    TranscodeJobStatus
	createdAt time.Time
	updatedAt time.Time
}

// NewTranscodeJobEntity 创建新任务
func NewTranscodeJobEntity(videoID, inputFile string) *TranscodeJobEntity {
	now := time.Now()
	return &TranscodeJobEntity{
		videoID:   videoID,
		inputFile: inputFile,
		status:    JobStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreTranscodeJobEntity 从持久化记录重建任务
func RestoreTranscodeJobEntity(videoID, inputFile string, status TranscodeJobStatus, createdAt, updatedAt time.Time) *TranscodeJobEntity {
	return &TranscodeJobEntity{
		videoID:   videoID,
		inputFile: inputFile,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (j *TranscodeJobEntity) VideoID() string            { return j.videoID }
func (j *TranscodeJobEntity) InputFile() string          { return j.inputFile }
func (j *TranscodeJobEntity) Status() TranscodeJobStatus { return j.status }
func (j *TranscodeJobEntity) CreatedAt() time.Time       { return j.createdAt }
func (j *TranscodeJobEntity) UpdatedAt() time.Time       { return j.updatedAt }

// MarkDone 任务到达终态
func (j *TranscodeJobEntity) MarkDone() {
	j.status = JobStatusDone
	j.updatedAt = time.Now()
}
