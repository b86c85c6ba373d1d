package http

import (
	"github.com/gin-gonic/gin"

	"vod-service/ddd/domain/service"
	"vod-service/pkg/restapi"
)

// StreamController HLS清单与切片下发控制器
type StreamController struct {
	streamService service.StreamService
}

// NewStreamController 创建流媒体控制器
func NewStreamController(streamService service.StreamService) *StreamController {
	return &StreamController{streamService: streamService}
}

// ServeRootFile 下发视频根目录下的文件（master playlist）
func (c *StreamController) ServeRootFile(ctx *gin.Context) {
	resolved, err := c.streamService.Resolve(ctx.Param("videoId"), "", ctx.Param("variant"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	c.serve(ctx, resolved)
}

// ServeVariantFile 下发档位目录下的清单或切片
func (c *StreamController) ServeVariantFile(ctx *gin.Context) {
	resolved, err := c.streamService.Resolve(ctx.Param("videoId"), ctx.Param("variant"), ctx.Param("file"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	c.serve(ctx, resolved)
}

func (c *StreamController) serve(ctx *gin.Context, resolved *service.ResolvedStreamFile) {
	ctx.Header("Content-Type", resolved.ContentType)
	ctx.Header("Cache-Control", resolved.CacheControl)
	// c.File支持Range请求，播放器拖动进度条依赖这一点
	ctx.File(resolved.Path)
}
