package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"vod-service/ddd/application/cqe"
	"vod-service/ddd/application/dto"
	"vod-service/ddd/domain/entity"
	"vod-service/ddd/domain/repo"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/domain/vo"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/pkg/config"
	"vod-service/pkg/errno"
	pkgkafka "vod-service/pkg/kafka"
	"vod-service/pkg/logger"
)

// mergeLockKeyPrefix 合并互斥锁的Redis键前缀
const mergeLockKeyPrefix = "vod:merge:"

// UploadApp 上传用例编排
type UploadApp interface {
	// InitUpload 创建上传会话，返回videoId
	InitUpload(ctx context.Context, req *cqe.InitUploadReq) (*dto.InitUploadDto, error)
	// SaveChunk 落盘单个分片，同号分片后写覆盖先写
	SaveChunk(ctx context.Context, req *cqe.SaveChunkReq, chunk io.Reader) error
	// Merge 合并分片并投递转码任务
	Merge(ctx context.Context, req *cqe.MergeReq) (*dto.MergeDto, error)
}

type uploadAppImpl struct {
	videoRepo repo.VideoRepository
	jobRepo   repo.TranscodeJobRepository
	assembler service.AssemblerService
	jobQueue  queue.JobQueue
	redisCli  *redis.Client
	cfg       *config.Config
}

// NewUploadAppWith 创建上传用例实例。redisCli为nil时跳过合并互斥锁。
func NewUploadAppWith(
	videoRepo repo.VideoRepository,
	jobRepo repo.TranscodeJobRepository,
	assembler service.AssemblerService,
	jobQueue queue.JobQueue,
	redisCli *redis.Client,
	cfg *config.Config,
) UploadApp {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &uploadAppImpl{
		videoRepo: videoRepo,
		jobRepo:   jobRepo,
		assembler: assembler,
		jobQueue:  jobQueue,
		redisCli:  redisCli,
		cfg:       cfg,
	}
}

func (u *uploadAppImpl) InitUpload(ctx context.Context, req *cqe.InitUploadReq) (*dto.InitUploadDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	video := entity.NewVideoEntity(req.FileName)
	if err := u.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}

	logger.Info("Upload session created", map[string]interface{}{
		"video_id":  video.VideoID(),
		"file_name": req.FileName,
	})
	return &dto.InitUploadDto{VideoID: video.VideoID()}, nil
}

func (u *uploadAppImpl) SaveChunk(ctx context.Context, req *cqe.SaveChunkReq, chunk io.Reader) error {
	if err := req.Validate(); err != nil {
		return err
	}

	video, err := u.videoRepo.FindByVideoID(ctx, req.VideoID)
	if err != nil {
		return err
	}
	if video == nil {
		return fmt.Errorf("video %s: %w", req.VideoID, errno.ErrVideoNotFound)
	}
	if video.Status() != vo.VideoStatusUploaded {
		return fmt.Errorf("cannot accept chunks in status %s: %w", video.Status().String(), errno.ErrInvalidTransition)
	}

	return u.assembler.WriteChunk(ctx, req.VideoID, req.ChunkNumber, chunk)
}

func (u *uploadAppImpl) Merge(ctx context.Context, req *cqe.MergeReq) (*dto.MergeDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	video, err := u.videoRepo.FindByVideoID(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video %s: %w", req.VideoID, errno.ErrVideoNotFound)
	}

	release, err := u.acquireMergeLock(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := video.BeginMerge(req.FileName); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), errno.ErrInvalidTransition)
	}
	if err := u.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}

	finalPath, err := u.assembler.Merge(ctx, req.VideoID, req.TotalChunks, u.finalFileName(video))
	if err != nil {
		u.failMerge(ctx, video, err)
		return nil, err
	}

	job := entity.NewTranscodeJobEntity(video.VideoID(), finalPath)
	if err := u.jobRepo.Create(ctx, job); err != nil {
		u.failMerge(ctx, video, err)
		return nil, err
	}

	if err := u.dispatchJob(ctx, job); err != nil {
		u.failMerge(ctx, video, err)
		return nil, fmt.Errorf("dispatch transcode job: %w", errno.ErrQueueFull)
	}

	logger.Info("Merge completed, transcode job dispatched", map[string]interface{}{
		"video_id":   video.VideoID(),
		"input_file": finalPath,
		"chunks":     req.TotalChunks,
	})
	return &dto.MergeDto{VideoID: video.VideoID(), FilePath: finalPath, Status: video.Status().String()}, nil
}

// acquireMergeLock SetNX互斥：同一videoId同时只允许一次合并
func (u *uploadAppImpl) acquireMergeLock(ctx context.Context, videoID string) (func(), error) {
	if u.redisCli == nil {
		return func() {}, nil
	}

	key := mergeLockKeyPrefix + videoID
	ttl := u.cfg.Upload.MergeLockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ok, err := u.redisCli.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		// Redis故障时放行，状态机仍然兜底
		logger.Warnf("merge lock unavailable video_id=%s error=%s", videoID, err.Error())
		return func() {}, nil
	}
	if !ok {
		return nil, fmt.Errorf("merge already running for video %s: %w", videoID, errno.ErrMergeInProgress)
	}
	return func() {
		if err := u.redisCli.Del(context.Background(), key).Err(); err != nil {
			logger.Warnf("failed to release merge lock video_id=%s error=%s", videoID, err.Error())
		}
	}, nil
}

// finalFileName 合并产物文件名：videoId前缀避免同名冲突
func (u *uploadAppImpl) finalFileName(video *entity.VideoEntity) string {
	if name := video.OriginalFileName(); name != "" {
		return video.VideoID() + "_" + name
	}
	return video.VideoID() + ".mp4"
}

func (u *uploadAppImpl) failMerge(ctx context.Context, video *entity.VideoEntity, cause error) {
	logger.Error("Merge failed", map[string]interface{}{
		"video_id": video.VideoID(),
		"error":    cause.Error(),
	})
	if err := video.MarkFailed(cause.Error()); err != nil {
		logger.Warnf("cannot mark video failed video_id=%s error=%s", video.VideoID(), err.Error())
		return
	}
	if err := u.videoRepo.Update(ctx, video); err != nil {
		logger.Errorf("failed to persist failed status video_id=%s error=%s", video.VideoID(), err.Error())
	}
}

// dispatchJob 投递任务：Kafka启用时经topic触发，否则直接入内存队列
func (u *uploadAppImpl) dispatchJob(ctx context.Context, job *entity.TranscodeJobEntity) error {
	if u.cfg.Kafka.Enabled {
		payload, err := json.Marshal(map[string]string{
			"video_id":   job.VideoID(),
			"input_file": job.InputFile(),
		})
		if err != nil {
			return err
		}
		topic := u.cfg.Kafka.Topics.TranscodeJobs
		if err := pkgkafka.DefaultClient().Produce(ctx, topic, []byte(job.VideoID()), payload); err == nil {
			return nil
		} else {
			logger.Warnf("kafka produce failed, falling back to direct enqueue video_id=%s error=%s",
				job.VideoID(), err.Error())
		}
	}
	return u.jobQueue.Enqueue(ctx, job)
}
