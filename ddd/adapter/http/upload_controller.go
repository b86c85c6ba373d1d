package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"vod-service/ddd/application/app"
	"vod-service/ddd/application/cqe"
	"vod-service/pkg/errno"
	"vod-service/pkg/restapi"
)

// UploadController 分片上传控制器
type UploadController struct {
	uploadApp app.UploadApp
}

// NewUploadController 创建上传控制器
func NewUploadController(uploadApp app.UploadApp) *UploadController {
	return &UploadController{uploadApp: uploadApp}
}

// InitUpload 初始化上传会话
func (c *UploadController) InitUpload(ctx *gin.Context) {
	var req cqe.InitUploadReq
	// 请求体可以为空
	_ = ctx.ShouldBindJSON(&req)

	resp, err := c.uploadApp.InitUpload(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// UploadChunk 接收单个分片（multipart表单）
func (c *UploadController) UploadChunk(ctx *gin.Context) {
	req := cqe.SaveChunkReq{
		VideoID: ctx.PostForm("videoId"),
	}
	chunkNumber, err := strconv.Atoi(ctx.PostForm("chunkNumber"))
	if err != nil {
		restapi.Failed(ctx, fmt.Errorf("invalid chunkNumber: %w", errno.ErrInvalidParam))
		return
	}
	req.ChunkNumber = chunkNumber

	fileHeader, err := ctx.FormFile("chunk")
	if err != nil {
		restapi.Failed(ctx, fmt.Errorf("chunk file is required: %w", errno.ErrMissingParam))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		restapi.Failed(ctx, fmt.Errorf("open chunk file: %w", errno.ErrUploadError))
		return
	}
	defer file.Close()

	if err := c.uploadApp.SaveChunk(ctx.Request.Context(), &req, file); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{
		"videoId":     req.VideoID,
		"chunkNumber": req.ChunkNumber,
	})
}

// Merge 合并分片并投递转码任务
func (c *UploadController) Merge(ctx *gin.Context) {
	var req cqe.MergeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, fmt.Errorf("invalid merge request: %w", errno.ErrInvalidParam))
		return
	}

	resp, err := c.uploadApp.Merge(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
