package resource

import (
	"vod-service/pkg/config"
	"vod-service/pkg/kafka"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
)

type KafkaResource struct{}

type KafkaResourcePlugin struct{}

func (p *KafkaResourcePlugin) Name() string { return "kafka" }

func (p *KafkaResourcePlugin) MustCreateResource() manager.Resource { return &KafkaResource{} }

func (r *KafkaResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil || !cfg.Kafka.Enabled {
		return
	}
	kafka.DefaultClient().MustOpen()
	// 任务topic兜底创建，broker禁用自动建topic时首发不丢
	if err := kafka.DefaultClient().EnsureTopic(cfg.Kafka.Topics.TranscodeJobs, 1, 1); err != nil {
		logger.Warnf("ensure kafka topic failed topic=%s error=%s", cfg.Kafka.Topics.TranscodeJobs, err.Error())
	}
}

func (r *KafkaResource) Close() { kafka.DefaultClient().Close() }
