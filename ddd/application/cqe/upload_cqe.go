package cqe

import (
	"fmt"

	"vod-service/pkg/errno"
)

// InitUploadReq 初始化上传会话请求
type InitUploadReq struct {
	FileName string `json:"fileName"` // 原始文件名（可选）
}

func (req *InitUploadReq) Validate() error {
	return nil
}

// SaveChunkReq 保存分片请求，文件体走multipart
type SaveChunkReq struct {
	VideoID     string `form:"videoId" binding:"required"`
	ChunkNumber int    `form:"chunkNumber"`
}

func (req *SaveChunkReq) Validate() error {
	if req.VideoID == "" {
		return fmt.Errorf("videoId is required: %w", errno.ErrMissingParam)
	}
	if req.ChunkNumber < 0 {
		return fmt.Errorf("chunkNumber must be non-negative: %w", errno.ErrInvalidParam)
	}
	return nil
}

// MergeReq 合并分片请求。TotalChunks由调用方声明，
// 服务端只校验声明的分片全部存在。
type MergeReq struct {
	VideoID     string `json:"videoId" binding:"required"`
	TotalChunks int    `json:"totalChunks" binding:"required"`
	FileName    string `json:"fileName"`
}

func (req *MergeReq) Validate() error {
	if req.VideoID == "" {
		return fmt.Errorf("videoId is required: %w", errno.ErrMissingParam)
	}
	if req.TotalChunks < 1 {
		return fmt.Errorf("totalChunks must be at least 1: %w", errno.ErrInvalidParam)
	}
	return nil
}
