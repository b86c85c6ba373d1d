package component

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"vod-service/ddd/domain/entity"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/pkg/config"
	pkgkafka "vod-service/pkg/kafka"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
)

// TranscodeJobConsumerPlugin 消费Kafka任务触发消息并喂给Worker队列
type TranscodeJobConsumerPlugin struct{}

func (p *TranscodeJobConsumerPlugin) Name() string { return "transcodeJobConsumer" }

func (p *TranscodeJobConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	jobQueue, _ := deps.JobQueue.(queue.JobQueue)
	return &transcodeJobConsumer{cfg: cfg, jobQueue: jobQueue}
}

type transcodeJobConsumer struct {
	cfg      *config.Config
	jobQueue queue.JobQueue
	ctx      context.Context
	cancel   context.CancelFunc
}

func (c *transcodeJobConsumer) Start() error {
	if c.cfg == nil || !c.cfg.Kafka.Enabled {
		logger.Info("Kafka disabled, transcode job consumer not started", nil)
		return nil
	}
	if c.jobQueue == nil {
		return errors.New("job queue not initialized before consumer")
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	topic := c.cfg.Kafka.Topics.TranscodeJobs
	groupID := c.cfg.Kafka.GroupID
	reader := pkgkafka.DefaultClient().Reader(topic, groupID)
	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, groupID)
		for {
			msg, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debug("Kafka reader EOF")
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}

			var m struct {
				VideoID   string `json:"video_id"`
				InputFile string `json:"input_file"`
			}
			if err := json.Unmarshal(msg.Value, &m); err != nil {
				logger.Warnf("Kafka message unmarshal error error=%s", err.Error())
				continue
			}
			if m.VideoID == "" || m.InputFile == "" {
				logger.Warnf("Kafka message missing fields offset=%d", msg.Offset)
				continue
			}

			logger.Infof("Kafka message received video_id=%s", m.VideoID)
			job := entity.NewTranscodeJobEntity(m.VideoID, m.InputFile)
			if err := c.jobQueue.Enqueue(c.ctx, job); err != nil {
				// 入队失败时丢弃触发消息，pending任务行会在重启时兜底
				logger.Warnf("enqueue transcode job failed video_id=%s error=%s", m.VideoID, err.Error())
			}
		}
	}()
	return nil
}

func (c *transcodeJobConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *transcodeJobConsumer) GetName() string { return "transcodeJobConsumer" }
