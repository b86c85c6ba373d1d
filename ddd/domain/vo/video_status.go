package vo

// VideoStatus 视频生命周期状态
type VideoStatus string

const (
	// VideoStatusUploaded 上传会话已创建
	VideoStatusUploaded VideoStatus = "uploaded"
	// VideoStatusMerging 分片合并中
	VideoStatusMerging VideoStatus = "merging"
	// VideoStatusTranscoding 转码中
	VideoStatusTranscoding VideoStatus = "transcoding"
	// VideoStatusReady 转码完成，可播放
	VideoStatusReady VideoStatus = "ready"
	// VideoStatusFailed 失败
	VideoStatusFailed VideoStatus = "failed"
)

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusUploaded, VideoStatusMerging, VideoStatusTranscoding,
		VideoStatusReady, VideoStatusFailed:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s VideoStatus) String() string {
	return string(s)
}

// IsFinalStatus 检查是否为最终状态
func (s VideoStatus) IsFinalStatus() bool {
	return s == VideoStatusReady || s == VideoStatusFailed
}

// CanTransitionTo 检查是否可以转换到目标状态。
// 生命周期单向推进：uploaded→merging→transcoding→{ready|failed}，
// 任意非终态都允许转入failed（异常路径）。
func (s VideoStatus) CanTransitionTo(target VideoStatus) bool {
	if target == VideoStatusFailed {
		return !s.IsFinalStatus()
	}
	switch s {
	case VideoStatusUploaded:
		return target == VideoStatusMerging
	case VideoStatusMerging:
		return target == VideoStatusTranscoding
	case VideoStatusTranscoding:
		return target == VideoStatusReady
	case VideoStatusReady, VideoStatusFailed:
		return false // 最终状态不能转换
	default:
		return false
	}
}
