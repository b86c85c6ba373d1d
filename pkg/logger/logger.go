package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"vod-service/pkg/config"
)

// Logger 日志器，封装logrus
type Logger struct {
	entry *logrus.Logger
}

// NewLogger 根据配置创建日志器
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level := logrus.InfoLevel
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			level = parsed
		}
	}
	l.SetLevel(level)

	if cfg != nil && cfg.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(resolveOutput(cfg))
	return &Logger{entry: l}
}

func resolveOutput(cfg *config.Config) io.Writer {
	if cfg == nil || cfg.Log.Output != "file" || cfg.Log.Filename == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stdout
	}
	return f
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Error(msg)
}

func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Fatal(msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *Logger) withFields(fields []map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 || fields[0] == nil {
		return logrus.NewEntry(l.entry)
	}
	return l.entry.WithFields(logrus.Fields(fields[0]))
}

var globalLogger = &Logger{entry: logrus.StandardLogger()}

// SetGlobalLogger 设置全局日志器
func SetGlobalLogger(l *Logger) {
	if l != nil {
		globalLogger = l
	}
}

// GetGlobalLogger 获取全局日志器
func GetGlobalLogger() *Logger { return globalLogger }

// 包级别快捷方法，委托给全局日志器

func Debug(msg string, fields ...map[string]interface{}) { globalLogger.Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { globalLogger.Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { globalLogger.Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { globalLogger.Error(msg, fields...) }
func Fatal(msg string, fields ...map[string]interface{}) { globalLogger.Fatal(msg, fields...) }

func Debugf(format string, args ...interface{}) { globalLogger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { globalLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { globalLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { globalLogger.Errorf(format, args...) }
