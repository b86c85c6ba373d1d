package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vod-service/pkg/assert"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
)

var (
	minioResourceOnce      sync.Once
	singletonMinioResource *MinioResource
)

// MinioResource HLS归档对象存储资源，minio.enabled=false时保持未就绪
type MinioResource struct {
	client *minio.Client
	bucket string
}

// DefaultMinioResource 获取MinIO资源单例
func DefaultMinioResource() *MinioResource {
	assert.NotCircular()
	minioResourceOnce.Do(func() {
		singletonMinioResource = &MinioResource{}
	})
	assert.NotNil(singletonMinioResource)
	return singletonMinioResource
}

// MustOpen 初始化MinIO客户端并确保归档桶存在，未启用时跳过
func (r *MinioResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MinioResource")
	}
	if !cfg.Minio.Enabled {
		return
	}
	if cfg.Minio.Endpoint == "" || cfg.Minio.BucketName == "" {
		panic("minio enabled but endpoint/bucket_name missing")
	}

	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKeyID, cfg.Minio.SecretAccessKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create minio client: %v", err))
	}
	r.client = client
	r.bucket = cfg.Minio.BucketName

	if err := r.ensureBucket(context.Background()); err != nil {
		panic(fmt.Sprintf("failed to prepare minio bucket %s: %v", r.bucket, err))
	}

	logger.Info("MinIO resource initialized", map[string]interface{}{
		"endpoint": cfg.Minio.Endpoint,
		"bucket":   r.bucket,
	})
}

func (r *MinioResource) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Client MinIO客户端，未就绪时为nil
func (r *MinioResource) Client() *minio.Client {
	return r.client
}

// Bucket 归档桶名
func (r *MinioResource) Bucket() string {
	return r.bucket
}

// Ready 是否已初始化（minio.enabled=false时为false）
func (r *MinioResource) Ready() bool {
	return r.client != nil
}

// Close minio-go客户端无持久连接，无需释放
func (r *MinioResource) Close() {}

// MinioResourcePlugin MinIO资源插件
type MinioResourcePlugin struct{}

func (p *MinioResourcePlugin) Name() string {
	return "minioResource"
}

func (p *MinioResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultMinioResource()
}
