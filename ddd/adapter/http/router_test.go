package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appsvc "vod-service/ddd/application/app"
	"vod-service/ddd/domain/service"
	"vod-service/ddd/infrastructure/database/persistence"
	"vod-service/ddd/infrastructure/database/po"
	"vod-service/ddd/infrastructure/queue"
	"vod-service/pkg/config"
	"vod-service/pkg/restapi"
)

type apiFixture struct {
	cfg    *config.Config
	engine *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigin: "*"},
		Upload: config.UploadConfig{
			ChunkDir:     filepath.Join(base, "chunks"),
			FinalDir:     filepath.Join(base, "final"),
			HLSDir:       filepath.Join(base, "hls"),
			ThumbnailDir: filepath.Join(base, "thumbnails"),
		},
		Worker: config.WorkerConfig{QueueCapacity: 10},
		Kafka:  config.KafkaConfig{Enabled: false},
	}
	require.NoError(t, os.MkdirAll(cfg.Upload.ThumbnailDir, 0o755))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&po.VideoPO{}, &po.TranscodeJobPO{}))

	videoRepo := persistence.NewVideoRepository(db)
	jobRepo := persistence.NewTranscodeJobRepository(db)
	jobQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)
	assembler := service.NewAssemblerService(cfg)

	uploadApp := appsvc.NewUploadAppWith(videoRepo, jobRepo, assembler, jobQueue, nil, cfg)
	videoApp := appsvc.NewVideoAppWith(videoRepo)
	streamService := service.NewStreamService(cfg)

	engine := gin.New()
	router := NewRouter(uploadApp, videoApp, streamService, jobQueue, nil, cfg)
	router.SetupMiddleware(engine)
	router.SetupRoutes(engine)

	return &apiFixture{cfg: cfg, engine: engine}
}

func (f *apiFixture) do(t *testing.T, req *nethttp.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) initUpload(t *testing.T, fileName string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"fileName": fileName})
	req := httptest.NewRequest("POST", "/api/upload/init", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(t, req)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var resp restapi.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	videoID := data["videoId"].(string)
	require.NotEmpty(t, videoID)
	return videoID
}

func (f *apiFixture) uploadChunk(t *testing.T, videoID string, number int, payload string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("videoId", videoID))
	require.NoError(t, w.WriteField("chunkNumber", strconv.Itoa(number)))
	fw, err := w.CreateFormFile("chunk", "blob")
	require.NoError(t, err)
	_, err = fw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/upload/chunk", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return f.do(t, req)
}

func (f *apiFixture) merge(t *testing.T, videoID string, totalChunks int) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{
		"videoId":     videoID,
		"totalChunks": totalChunks,
	})
	req := httptest.NewRequest("POST", "/api/upload/merge", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req)
}

func TestUploadFlowOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	videoID := f.initUpload(t, "movie.mp4")

	for i, part := range []string{"AA", "BB"} {
		rec := f.uploadChunk(t, videoID, i+1, part)
		require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	}

	rec := f.merge(t, videoID, 2)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	// 合并响应键名与对外约定一致
	var mergeResp restapi.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mergeResp))
	mergeData := mergeResp.Data.(map[string]interface{})
	assert.Equal(t, videoID, mergeData["videoId"])
	assert.Contains(t, mergeData["filePath"], videoID+"_movie.mp4")

	// 合并后状态可轮询
	rec = f.do(t, httptest.NewRequest("GET", "/api/videos/"+videoID, nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var resp restapi.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, videoID, data["videoId"])
	assert.Equal(t, "merging", data["status"])
	assert.Equal(t, "movie.mp4", data["originalFileName"])

	// 合并产物落盘
	data2, err := os.ReadFile(filepath.Join(f.cfg.Upload.FinalDir, videoID+"_movie.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "AABB", string(data2))
}

func TestUploadChunkValidation(t *testing.T) {
	f := newAPIFixture(t)

	// 缺少chunkNumber
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("videoId", "vid-1"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/upload/chunk", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := f.do(t, req)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestMergeUnknownVideoOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.merge(t, "ghost", 1)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestMergeInvalidBodyOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest("POST", "/api/upload/merge", bytes.NewReader([]byte("not-json")))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(t, req)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestGetVideoNotFoundOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, httptest.NewRequest("GET", "/api/videos/ghost", nil))
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestStreamMasterPlaylistOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	dir := filepath.Join(f.cfg.Upload.HLSDir, "vid-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "master.m3u8"), []byte("#EXTM3U\n"), 0o644))

	rec := f.do(t, httptest.NewRequest("GET", "/stream/vid-1/master.m3u8", nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "#EXTM3U\n", rec.Body.String())
}

func TestStreamSegmentOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	dir := filepath.Join(f.cfg.Upload.HLSDir, "vid-1", "720p")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segment_000.ts"), []byte("tsdata"), 0o644))

	rec := f.do(t, httptest.NewRequest("GET", "/stream/vid-1/720p/segment_000.ts", nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "video/mp2t", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestStreamMissingFileOverHTTP(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, httptest.NewRequest("GET", "/stream/ghost/master.m3u8", nil))
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = f.do(t, httptest.NewRequest("GET", "/stream/ghost/720p/segment_000.ts", nil))
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, float64(0), payload["queue_size"])
}

func TestRequestIDHeaderInjected(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, httptest.NewRequest("GET", "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = f.do(t, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
