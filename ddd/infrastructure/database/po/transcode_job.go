package po

import "time"

// TranscodeJobPO 转码任务持久化对象，队列的耐久记录
type TranscodeJobPO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   string    `gorm:"uniqueIndex;size:36;not null" json:"video_id"`
	InputFile string    `gorm:"size:500;not null" json:"input_file"`
	Status    string    `gorm:"index;size:20;not null" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (TranscodeJobPO) TableName() string {
	return "transcode_jobs"
}
