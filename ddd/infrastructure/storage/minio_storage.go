package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"vod-service/ddd/domain/gateway"
	"vod-service/internal/resource"
	"vod-service/pkg/logger"
)

// MinioStorage MinIO归档存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource) gateway.ArchiveGateway {
	return &MinioStorage{
		minioResource: minioResource,
	}
}

// UploadObjects 批量归档HLS产物
func (s *MinioStorage) UploadObjects(ctx context.Context, objects []gateway.UploadObject) error {
	if len(objects) == 0 {
		return nil
	}

	client := s.minioResource.Client()
	bucketName := s.minioResource.Bucket()

	for _, obj := range objects {
		if err := s.uploadOne(ctx, client, bucketName, obj); err != nil {
			return err
		}
	}

	logger.Info("Archived HLS objects", map[string]interface{}{
		"bucket": bucketName,
		"count":  len(objects),
	})
	return nil
}

func (s *MinioStorage) uploadOne(ctx context.Context, client *minio.Client, bucketName string, obj gateway.UploadObject) error {
	file, err := os.Open(obj.LocalPath)
	if err != nil {
		logger.Error("Failed to open local file for archive", map[string]interface{}{
			"local_path": obj.LocalPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		logger.Error("Failed to stat local file for archive", map[string]interface{}{
			"local_path": obj.LocalPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("get file info failed: %w", err)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = contentTypeFromExtension(obj.ObjectKey)
	}

	_, err = client.PutObject(ctx, bucketName, obj.ObjectKey, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload object to MinIO", map[string]interface{}{
			"local_path": obj.LocalPath,
			"object_key": obj.ObjectKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("upload object to minio failed: %w", err)
	}
	return nil
}

// contentTypeFromExtension 根据文件扩展名获取内容类型
func contentTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".mp4":
		return "video/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
