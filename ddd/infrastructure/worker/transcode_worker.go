package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/domain/gateway"
	"vod-service/ddd/domain/repo"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/domain/vo"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
)

// WorkerStats Worker运行统计
type WorkerStats struct {
	StartTime        time.Time `json:"start_time"`
	ProcessedTasks   int64     `json:"processed_tasks"`
	SuccessfulTasks  int64     `json:"successful_tasks"`
	FailedTasks      int64     `json:"failed_tasks"`
	CurrentlyRunning int       `json:"currently_running"`
	LastTaskTime     time.Time `json:"last_task_time"`
}

// TranscodeWorker 转码Worker池
type TranscodeWorker interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
	GetStats() WorkerStats
}

type transcodeWorkerImpl struct {
	id          string
	videoRepo   repo.VideoRepository
	jobRepo     repo.TranscodeJobRepository
	jobQueue    queue.JobQueue
	hlsService  service.HLSService
	prober      gateway.MediaProber
	archive     gateway.ArchiveGateway
	cfg         *config.Config
	workerCount int
	running     bool
	cancel      context.CancelFunc
	stats       WorkerStats
	mu          sync.RWMutex
	wg          sync.WaitGroup
}

// NewTranscodeWorker 创建转码Worker池。archive为nil时跳过归档。
func NewTranscodeWorker(
	id string,
	videoRepo repo.VideoRepository,
	jobRepo repo.TranscodeJobRepository,
	jobQueue queue.JobQueue,
	hlsService service.HLSService,
	prober gateway.MediaProber,
	archive gateway.ArchiveGateway,
	cfg *config.Config,
	workerCount int,
) TranscodeWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &transcodeWorkerImpl{
		id:          id,
		videoRepo:   videoRepo,
		jobRepo:     jobRepo,
		jobQueue:    jobQueue,
		hlsService:  hlsService,
		prober:      prober,
		archive:     archive,
		cfg:         cfg,
		workerCount: workerCount,
		stats:       WorkerStats{StartTime: time.Now()},
	}
}

func (w *transcodeWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("worker %s is already running", w.id)
	}
	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.stats.StartTime = time.Now()

	// 重启恢复：把仍为pending的任务行重新投递（至少一次语义）
	go w.recoverPendingJobs(workerCtx)

	w.wg.Add(w.workerCount)
	for i := 0; i < w.workerCount; i++ {
		go w.workerLoop(workerCtx)
	}
	logger.Infof("transcode worker started id=%s count=%d", w.id, w.workerCount)
	return nil
}

func (w *transcodeWorkerImpl) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// 等待在途任务收尾，期间不持锁以便统计更新
	w.wg.Wait()

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	return nil
}

func (w *transcodeWorkerImpl) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *transcodeWorkerImpl) GetStats() WorkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// recoverPendingJobs 重启恢复：分批重投pending任务行直到积压见底。
// 行在worker完成前一直pending，用seen去重避免同一行重复入队。
func (w *transcodeWorkerImpl) recoverPendingJobs(ctx context.Context) {
	const batchSize = 100
	seen := make(map[string]struct{})
	recovered := 0
	for ctx.Err() == nil {
		jobs, err := w.jobRepo.FindPending(ctx, batchSize)
		if err != nil {
			logger.Warnf("failed to load pending transcode jobs error=%s", err.Error())
			break
		}
		fresh := jobs[:0:0]
		for _, job := range jobs {
			if _, ok := seen[job.VideoID()]; !ok {
				fresh = append(fresh, job)
			}
		}
		if len(fresh) == 0 {
			if len(jobs) < batchSize {
				break
			}
			// 整页都是在途行，等worker消化后再翻更深的积压
			if !sleepWithContext(ctx, time.Second) {
				break
			}
			continue
		}
		for _, job := range fresh {
			if !w.enqueueWithRetry(ctx, job) {
				return
			}
			seen[job.VideoID()] = struct{}{}
			recovered++
		}
	}
	if recovered > 0 {
		logger.Info("Re-enqueued pending transcode jobs", map[string]interface{}{
			"count": recovered,
		})
	}
}

// enqueueWithRetry 队列满时退避重试，停机或队列关闭时放弃（下次重启续投）
func (w *transcodeWorkerImpl) enqueueWithRetry(ctx context.Context, job *entity.TranscodeJobEntity) bool {
	for {
		err := w.jobQueue.Enqueue(ctx, job)
		if err == nil {
			return true
		}
		if ctx.Err() != nil || w.jobQueue.IsClosed() {
			return false
		}
		logger.Warnf("re-enqueue pending job deferred video_id=%s error=%s", job.VideoID(), err.Error())
		if !sleepWithContext(ctx, time.Second) {
			return false
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (w *transcodeWorkerImpl) workerLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		job, err := w.jobQueue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if w.jobQueue.IsClosed() {
				return
			}
			continue
		}
		if job == nil {
			continue
		}
		w.processJob(ctx, job)
	}
}

func (w *transcodeWorkerImpl) processJob(ctx context.Context, job *entity.TranscodeJobEntity) {
	w.updateStats(func(s *WorkerStats) { s.CurrentlyRunning++; s.LastTaskTime = time.Now() })
	defer w.updateStats(func(s *WorkerStats) { s.CurrentlyRunning--; s.ProcessedTasks++ })

	video, err := w.videoRepo.FindByVideoID(ctx, job.VideoID())
	if err != nil {
		logger.Warnf("failed to load video for job video_id=%s error=%s", job.VideoID(), err.Error())
		w.updateStats(func(s *WorkerStats) { s.FailedTasks++ })
		return
	}
	if video == nil {
		// 任务行指向不存在的视频，标记完成避免重复投递
		logger.Warnf("transcode job refers to unknown video video_id=%s", job.VideoID())
		_ = w.jobRepo.MarkDone(ctx, job.VideoID())
		return
	}
	if video.Status().IsFinalStatus() {
		// 重复投递：视频已到终态，任务直接收尾
		_ = w.jobRepo.MarkDone(ctx, job.VideoID())
		return
	}

	// 崩溃恢复：已处于transcoding的视频直接续跑，档位目录覆盖写可重入
	if video.Status() != vo.VideoStatusTranscoding {
		if err := video.BeginTranscode(); err != nil {
			// 状态机拒绝说明任务行推进不了，置失败收尾，避免重启反复重投
			logger.Warnf("cannot start transcode video_id=%s status=%s error=%s",
				video.VideoID(), video.Status().String(), err.Error())
			w.finishFailed(ctx, video, job, err)
			return
		}
		if err := w.videoRepo.Update(ctx, video); err != nil {
			logger.Warnf("failed to persist transcoding status video_id=%s error=%s", video.VideoID(), err.Error())
			w.updateStats(func(s *WorkerStats) { s.FailedTasks++ })
			return
		}
	}

	logger.Info("Transcode started", map[string]interface{}{
		"video_id":   video.VideoID(),
		"input_file": job.InputFile(),
	})

	// 媒体信息探测失败不影响转码
	duration, thumbnail := w.probeMediaInfo(ctx, video.VideoID(), job.InputFile())

	masterPath, err := w.hlsService.GenerateLadder(ctx, video.VideoID(), job.InputFile())
	if err != nil {
		w.finishFailed(ctx, video, job, err)
		return
	}

	video.SetMediaInfo(duration, thumbnail)
	if err := video.MarkReady(masterPath); err != nil {
		w.finishFailed(ctx, video, job, err)
		return
	}
	if err := w.videoRepo.Update(ctx, video); err != nil {
		logger.Errorf("failed to persist ready status video_id=%s error=%s", video.VideoID(), err.Error())
		w.updateStats(func(s *WorkerStats) { s.FailedTasks++ })
		return
	}
	if err := w.jobRepo.MarkDone(ctx, job.VideoID()); err != nil {
		logger.Warnf("failed to mark job done video_id=%s error=%s", job.VideoID(), err.Error())
	}

	// 归档失败只告警，视频仍然ready
	w.archiveOutput(ctx, video.VideoID())

	logger.Info("Transcode finished", map[string]interface{}{
		"video_id": video.VideoID(),
		"hls_path": masterPath,
	})
	w.updateStats(func(s *WorkerStats) { s.SuccessfulTasks++ })
}

func (w *transcodeWorkerImpl) finishFailed(ctx context.Context, video *entity.VideoEntity, job *entity.TranscodeJobEntity, cause error) {
	errMsg := truncateError(cause.Error(), 480)
	logger.Error("Transcode failed", map[string]interface{}{
		"video_id": video.VideoID(),
		"error":    errMsg,
	})
	if err := video.MarkFailed(errMsg); err != nil {
		logger.Warnf("cannot mark video failed video_id=%s error=%s", video.VideoID(), err.Error())
	} else if err := w.videoRepo.Update(ctx, video); err != nil {
		logger.Errorf("failed to persist failed status video_id=%s error=%s", video.VideoID(), err.Error())
	}
	if err := w.jobRepo.MarkDone(ctx, job.VideoID()); err != nil {
		logger.Warnf("failed to mark job done video_id=%s error=%s", job.VideoID(), err.Error())
	}
	w.updateStats(func(s *WorkerStats) { s.FailedTasks++ })
}

func (w *transcodeWorkerImpl) probeMediaInfo(ctx context.Context, videoID, inputFile string) (float64, string) {
	if w.prober == nil {
		return 0, ""
	}
	duration := w.prober.ProbeDuration(ctx, inputFile)

	thumbnailPath := filepath.Join(w.cfg.Upload.ThumbnailDir, videoID+".jpg")
	if err := os.MkdirAll(w.cfg.Upload.ThumbnailDir, 0o755); err != nil {
		logger.Warnf("failed to create thumbnail dir error=%s", err.Error())
		return duration, ""
	}
	if err := w.prober.ExtractThumbnail(ctx, inputFile, thumbnailPath, 3); err != nil {
		logger.Warnf("failed to extract thumbnail video_id=%s error=%s", videoID, err.Error())
		return duration, ""
	}
	return duration, thumbnailPath
}

// archiveOutput 把整棵HLS输出树备份到对象存储
func (w *transcodeWorkerImpl) archiveOutput(ctx context.Context, videoID string) {
	if w.archive == nil {
		return
	}

	base := filepath.Join(w.cfg.Upload.HLSDir, videoID)
	objects := make([]gateway.UploadObject, 0, 32)
	_ = filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.cfg.Upload.HLSDir, path)
		if relErr != nil {
			return nil
		}
		objects = append(objects, gateway.UploadObject{
			LocalPath: path,
			ObjectKey: "hls/" + filepath.ToSlash(rel),
		})
		return nil
	})
	if len(objects) == 0 {
		return
	}
	if err := w.archive.UploadObjects(ctx, objects); err != nil {
		logger.Warnf("failed to archive hls output video_id=%s error=%s", videoID, err.Error())
	}
}

func (w *transcodeWorkerImpl) updateStats(f func(*WorkerStats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(&w.stats)
}

func truncateError(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	return msg[:limit]
}
