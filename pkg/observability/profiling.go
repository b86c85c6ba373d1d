package observability

import (
	"os"

	pyroscope "github.com/grafana/pyroscope-go"

	"vod-service/pkg/config"
	"vod-service/pkg/logger"
)

// StartProfiling 接入pyroscope持续剖析，未启用时直接返回
func StartProfiling(appName string) {
	cfg := config.GetGlobalConfig()

	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	enabled := addr != ""
	if cfg != nil {
		if cfg.Profiling.ServerAddress != "" {
			addr = cfg.Profiling.ServerAddress
		}
		enabled = cfg.Profiling.Enabled && addr != ""
	}
	if !enabled {
		return
	}

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
	})
	if err != nil {
		logger.Warnf("pyroscope start failed error=%s", err.Error())
	}
}
