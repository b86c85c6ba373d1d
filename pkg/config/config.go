package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Minio     MinioConfig     `mapstructure:"minio"`
	Log       LogConfig       `mapstructure:"log"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Transcode TranscodeConfig `mapstructure:"transcode"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled          bool              `mapstructure:"enabled"`
	BootstrapServers []string          `mapstructure:"bootstrap_servers"`
	ClientID         string            `mapstructure:"client_id"`
	GroupID          string            `mapstructure:"group_id"`
	Topics           KafkaTopicsConfig `mapstructure:"topics"`
}

type KafkaTopicsConfig struct {
	TranscodeJobs string `mapstructure:"transcode_jobs"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// ProfilingConfig pyroscope接入配置
type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
}

// UploadConfig 上传目录配置
type UploadConfig struct {
	ChunkDir     string        `mapstructure:"chunk_dir"`
	FinalDir     string        `mapstructure:"final_dir"`
	HLSDir       string        `mapstructure:"hls_dir"`
	ThumbnailDir string        `mapstructure:"thumbnail_dir"`
	MergeLockTTL time.Duration `mapstructure:"merge_lock_ttl"`
}

// TranscodeConfig 转码配置
type TranscodeConfig struct {
	FFmpeg FFmpegConfig `mapstructure:"ffmpeg"`
}

// FFmpegConfig FFmpeg相关配置
type FFmpegConfig struct {
	BinaryPath      string        `mapstructure:"binary_path"`
	ProbeBinaryPath string        `mapstructure:"probe_binary_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SegmentSeconds  int           `mapstructure:"segment_seconds"`
	GOPSize         int           `mapstructure:"gop_size"`
	CRF             int           `mapstructure:"crf"`
	AudioSampleRate int           `mapstructure:"audio_sample_rate"`
}

// WorkerConfig Worker相关配置
type WorkerConfig struct {
	WorkerID            string        `mapstructure:"worker_id"`
	MaxConcurrentTasks  int           `mapstructure:"max_concurrent_tasks"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

var globalConfig *Config

// SetGlobalConfig 设置全局配置
func SetGlobalConfig(cfg *Config) { globalConfig = cfg }

// GetGlobalConfig 获取全局配置
func GetGlobalConfig() *Config { return globalConfig }

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "vod-service")
	viper.SetDefault("kafka.group_id", "vod-service-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.transcode_jobs", "vod.transcode.jobs")
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("minio.enabled", false)

	// 设置环境变量前缀
	viper.SetEnvPrefix("VOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// 解析配置
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Upload.ChunkDir == "" {
		c.Upload.ChunkDir = "uploads/chunks"
	}
	if c.Upload.FinalDir == "" {
		c.Upload.FinalDir = "uploads/final"
	}
	if c.Upload.HLSDir == "" {
		c.Upload.HLSDir = "uploads/hls"
	}
	if c.Upload.ThumbnailDir == "" {
		c.Upload.ThumbnailDir = "uploads/thumbnails"
	}
	if c.Upload.MergeLockTTL <= 0 {
		c.Upload.MergeLockTTL = 30 * time.Minute
	}

	// Worker默认串行，避免编码子进程争抢CPU
	if c.Worker.MaxConcurrentTasks <= 0 {
		c.Worker.MaxConcurrentTasks = 1
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = c.Worker.MaxConcurrentTasks * 10
		if c.Worker.QueueCapacity <= 0 {
			c.Worker.QueueCapacity = 100
		}
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}
	if c.Worker.WorkerID == "" {
		c.Worker.WorkerID = "vod-worker"
	}

	// FFmpeg默认值
	if c.Transcode.FFmpeg.BinaryPath == "" {
		c.Transcode.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Transcode.FFmpeg.ProbeBinaryPath == "" {
		c.Transcode.FFmpeg.ProbeBinaryPath = "ffprobe"
	}
	if c.Transcode.FFmpeg.Timeout == 0 {
		c.Transcode.FFmpeg.Timeout = time.Hour
	}
	if c.Transcode.FFmpeg.SegmentSeconds <= 0 {
		c.Transcode.FFmpeg.SegmentSeconds = 5
	}
	if c.Transcode.FFmpeg.GOPSize <= 0 {
		c.Transcode.FFmpeg.GOPSize = 48
	}
	if c.Transcode.FFmpeg.CRF <= 0 {
		c.Transcode.FFmpeg.CRF = 20
	}
	if c.Transcode.FFmpeg.AudioSampleRate <= 0 {
		c.Transcode.FFmpeg.AudioSampleRate = 48000
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "vod-service"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "vod-service-group"
	}
	if c.Kafka.Topics.TranscodeJobs == "" {
		c.Kafka.Topics.TranscodeJobs = "vod.transcode.jobs"
	}
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
