package http

import (
	"github.com/gin-gonic/gin"

	"vod-service/ddd/application/app"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/ddd/infrastructure/worker"
	"vod-service/pkg/config"
	"vod-service/pkg/middleware"
)

// Router 路由配置
type Router struct {
	uploadApp     app.UploadApp
	videoApp      app.VideoApp
	streamService service.StreamService
	jobQueue      queue.JobQueue
	worker        worker.TranscodeWorker
	cfg           *config.Config
}

// NewRouter 创建路由配置
func NewRouter(
	uploadApp app.UploadApp,
	videoApp app.VideoApp,
	streamService service.StreamService,
	jobQueue queue.JobQueue,
	w worker.TranscodeWorker,
	cfg *config.Config,
) *Router {
	return &Router{
		uploadApp:     uploadApp,
		videoApp:      videoApp,
		streamService: streamService,
		jobQueue:      jobQueue,
		worker:        w,
		cfg:           cfg,
	}
}

// SetupMiddleware 设置中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(middleware.CORSMiddleware(r.cfg.Server.CORSOrigin))
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	uploadController := NewUploadController(r.uploadApp)
	videoController := NewVideoController(r.videoApp)
	streamController := NewStreamController(r.streamService)

	api := engine.Group("/api")
	{
		upload := api.Group("/upload")
		{
			upload.POST("/init", uploadController.InitUpload)   // 创建上传会话
			upload.POST("/chunk", uploadController.UploadChunk) // 接收分片
			upload.POST("/merge", uploadController.Merge)       // 合并并投递转码
		}
		api.GET("/videos/:videoId", videoController.GetVideo) // 状态轮询
	}

	stream := engine.Group("/stream")
	{
		stream.GET("/:videoId/:variant", streamController.ServeRootFile)       // master.m3u8
		stream.GET("/:videoId/:variant/:file", streamController.ServeVariantFile) // 档位清单与切片
	}

	// 缩略图静态下发，gin自带目录逃逸防护
	engine.Static("/thumbnails", r.cfg.Upload.ThumbnailDir)

	engine.GET("/health", r.health)
}

// health 健康检查：带上队列深度与Worker统计
func (r *Router) health(ctx *gin.Context) {
	payload := gin.H{
		"status":  "ok",
		"service": "vod-service",
	}
	if r.jobQueue != nil {
		payload["queue_size"] = r.jobQueue.Size()
	}
	if r.worker != nil {
		payload["worker_running"] = r.worker.IsRunning()
		payload["worker_stats"] = r.worker.GetStats()
	}
	ctx.JSON(200, payload)
}
