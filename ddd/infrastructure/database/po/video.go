package po

import "time"

// VideoPO 视频记录持久化对象
type VideoPO struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID          string    `gorm:"uniqueIndex;size:36;not null" json:"video_id"`
	OriginalFileName string    `gorm:"size:255" json:"original_file_name"`
	Status           string    `gorm:"index;size:20;not null" json:"status"`
	HLSPath          string    `gorm:"size:500" json:"hls_path"`
	ErrorMessage     string    `gorm:"type:text" json:"error_message"`
	Duration         float64   `gorm:"default:0" json:"duration"`
	Thumbnail        string    `gorm:"size:500" json:"thumbnail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName 指定表名
func (VideoPO) TableName() string {
	return "videos"
}
