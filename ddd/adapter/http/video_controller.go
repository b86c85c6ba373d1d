package http

import (
	"github.com/gin-gonic/gin"

	"vod-service/ddd/application/app"
	"vod-service/pkg/restapi"
)

// VideoController 视频查询控制器
type VideoController struct {
	videoApp app.VideoApp
}

// NewVideoController 创建视频控制器
func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

// GetVideo 查询视频记录（状态轮询入口）
func (c *VideoController) GetVideo(ctx *gin.Context) {
	resp, err := c.videoApp.GetVideo(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
