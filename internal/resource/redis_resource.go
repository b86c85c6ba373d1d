package resource

import (
	"sync"

	"github.com/redis/go-redis/v9"

	"vod-service/pkg/assert"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
	"vod-service/pkg/redisclient"
)

var (
	redisResourceOnce sync.Once
	redisSingleton    *RedisResource
)

// RedisResource Redis资源管理器，redis.enabled=false时保持空客户端
type RedisResource struct {
	client *redis.Client
}

// DefaultRedisResource 获取Redis资源单例
func DefaultRedisResource() *RedisResource {
	assert.NotCircular()
	redisResourceOnce.Do(func() {
		redisSingleton = &RedisResource{}
	})
	assert.NotNil(redisSingleton)
	return redisSingleton
}

// MustOpen 建立Redis连接，未启用时跳过
func (r *RedisResource) MustOpen() {
	if r.client != nil {
		return
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before RedisResource")
	}
	if !cfg.Redis.Enabled {
		logger.Infof("Redis disabled, merge lock degrades to caller sequencing")
		return
	}

	client, err := redisclient.Open(cfg.Redis)
	if err != nil {
		panic("failed to connect redis: " + err.Error())
	}
	r.client = client
	logger.Infof("Redis resource initialized addr=%s", cfg.Redis.GetRedisAddr())
}

// Close 释放连接池
func (r *RedisResource) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}

// Client 原生go-redis客户端，未启用时为nil
func (r *RedisResource) Client() *redis.Client {
	return r.client
}

// RedisResourcePlugin Redis资源插件
type RedisResourcePlugin struct{}

func (p *RedisResourcePlugin) Name() string {
	return "redisResource"
}

func (p *RedisResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultRedisResource()
}
