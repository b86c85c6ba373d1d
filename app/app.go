package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"vod-service/ddd/adapter/component"
	httpadapter "vod-service/ddd/adapter/http"
	appsvc "vod-service/ddd/application/app"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/infrastructure/database/persistence"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/ddd/infrastructure/worker"
	"vod-service/internal/resource"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
	"vod-service/pkg/observability"
)

func Run() {
	fmt.Println("[STARTUP] Starting vod service...")

	// 加载配置
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 资源初始化依赖全局配置
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Debug("Logger initialized", map[string]interface{}{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})

	logger.Infof("VOD service starting version=%s", "1.0.0")

	// 配置就绪后才能读profiling开关
	observability.StartProfiling("vod-service")

	// 启动阶段校验编码工具链，缺失直接失败
	checkToolchain(cfg)

	// 上传目录缺失时自动创建
	prepareDirectories(cfg)

	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	db := resource.DefaultMySqlResource().GetDB()

	// 任务队列先于组件创建：Worker与消费者共用同一实例
	jobQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)

	deps := &manager.Dependencies{
		DB:       db,
		Config:   cfg,
		JobQueue: jobQueue,
	}

	// 注册顺序即启动顺序：Worker池必须先于消费者就绪
	manager.RegisterComponentPlugin(&worker.TranscodeWorkerComponentPlugin{})
	manager.RegisterComponentPlugin(&component.TranscodeJobConsumerPlugin{})

	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// 装配应用服务
	videoRepo := persistence.NewVideoRepository(db)
	jobRepo := persistence.NewTranscodeJobRepository(db)
	assembler := service.NewAssemblerService(cfg)
	streamService := service.NewStreamService(cfg)
	redisCli := resource.DefaultRedisResource().Client()

	uploadApp := appsvc.NewUploadAppWith(videoRepo, jobRepo, assembler, jobQueue, redisCli, cfg)
	videoApp := appsvc.NewVideoAppWith(videoRepo)

	transcodeWorker, _ := deps.Worker.(worker.TranscodeWorker)

	// HTTP路由
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	router := httpadapter.NewRouter(uploadApp, videoApp, streamService, jobQueue, transcodeWorker, cfg)
	router.SetupMiddleware(engine)
	router.SetupRoutes(engine)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()

	logger.Infof("HTTP server started address=%s health_url=%s", addr,
		fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	// 先停组件：消费者停止拉取，Worker收尾在途任务
	manager.StopComponents()
	logger.Infof("Components stopped")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to close error=%v", err)
	}

	logger.Infof("Server exited safely")
}

// checkToolchain 确认ffmpeg与ffprobe可执行
func checkToolchain(cfg *config.Config) {
	ffmpegBin := strings.TrimSpace(cfg.Transcode.FFmpeg.BinaryPath)
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set transcode.ffmpeg.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}

	probeBin := strings.TrimSpace(cfg.Transcode.FFmpeg.ProbeBinaryPath)
	if probeBin == "" {
		probeBin = "ffprobe"
	}
	if _, err := exec.LookPath(probeBin); err != nil {
		// 缺少ffprobe只影响时长探测
		logger.Warnf("ffprobe binary not found, duration probing disabled binary=%s error=%s", probeBin, err.Error())
	}
}

func prepareDirectories(cfg *config.Config) {
	for _, dir := range []string{
		cfg.Upload.ChunkDir,
		cfg.Upload.FinalDir,
		cfg.Upload.HLSDir,
		cfg.Upload.ThumbnailDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal(fmt.Sprintf("Failed to create upload directory dir=%s error=%v", dir, err))
		}
	}
}

// resolveConfigPath 支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	switch env {
	case "", "dev", "development":
		return "configs/config.yaml"
	case "prod", "production":
		return "configs/config_prod.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
