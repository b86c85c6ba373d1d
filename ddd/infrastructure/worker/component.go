package worker

import (
	"context"
	"fmt"

	"vod-service/ddd/domain/gateway"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/infrastructure/database/persistence"
	"vod-service/ddd/infrastructure/executor"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/ddd/infrastructure/storage"
	"vod-service/internal/resource"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
)

// TranscodeWorkerComponentPlugin 负责装配并启动转码Worker池
type TranscodeWorkerComponentPlugin struct{}

func (p *TranscodeWorkerComponentPlugin) Name() string {
	return "transcodeWorkerComponent"
}

func (p *TranscodeWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}

	videoRepo := persistence.NewVideoRepository(deps.DB)
	jobRepo := persistence.NewTranscodeJobRepository(deps.DB)

	jobQueue, ok := deps.JobQueue.(queue.JobQueue)
	if !ok || jobQueue == nil {
		jobQueue = queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)
		deps.JobQueue = jobQueue
	}

	ffExecutor := executor.NewFFmpegExecutor(cfg)
	hlsService := service.NewHLSService(cfg, ffExecutor)

	// MinIO未启用时不归档
	var archive gateway.ArchiveGateway
	if minioRes := resource.DefaultMinioResource(); minioRes.Ready() {
		archive = storage.NewMinioStorage(minioRes)
	}

	w := NewTranscodeWorker(
		cfg.Worker.WorkerID,
		videoRepo,
		jobRepo,
		jobQueue,
		hlsService,
		ffExecutor,
		archive,
		cfg,
		cfg.Worker.MaxConcurrentTasks,
	)
	deps.VideoRepository = videoRepo
	deps.JobRepository = jobRepo
	deps.Worker = w

	return &transcodeWorkerComponent{
		name:     "transcodeWorker",
		jobQueue: jobQueue,
		worker:   w,
	}
}

type transcodeWorkerComponent struct {
	name     string
	jobQueue queue.JobQueue
	worker   TranscodeWorker
	cancel   context.CancelFunc
}

func (c *transcodeWorkerComponent) Start() error {
	if c.worker == nil {
		return fmt.Errorf("transcode worker not initialized")
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	if err := c.worker.Start(ctx); err != nil {
		cancel()
		return err
	}
	return nil
}

func (c *transcodeWorkerComponent) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.jobQueue != nil {
		_ = c.jobQueue.Close()
	}
	if err := c.worker.Stop(); err != nil {
		return err
	}
	logger.Infof("Transcode worker component stopped name=%s", c.name)
	return nil
}

func (c *transcodeWorkerComponent) GetName() string {
	return c.name
}
