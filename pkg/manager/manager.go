package manager

import (
	"gorm.io/gorm"

	"vod-service/pkg/config"
	"vod-service/pkg/logger"
)

// Resource 基础资源（数据库、缓存、消息队列等）
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin 资源插件，负责创建资源实例
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component 后台组件（消费者、Worker等）
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

// ComponentPlugin 组件插件，负责创建组件实例
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// Dependencies 依赖注入容器
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config

	// 由引导阶段填充，供组件插件取用
	VideoRepository interface{}
	JobRepository   interface{}
	JobQueue        interface{}
	Worker          interface{}
}

var (
	resourcePlugins  []ResourcePlugin
	componentPlugins []ComponentPlugin

	openedResources   []Resource
	startedComponents []Component
)

// RegisterResourcePlugin 注册资源插件
func RegisterResourcePlugin(p ResourcePlugin) {
	resourcePlugins = append(resourcePlugins, p)
}

// RegisterComponentPlugin 注册组件插件
func RegisterComponentPlugin(p ComponentPlugin) {
	componentPlugins = append(componentPlugins, p)
}

// MustInitResources 按注册顺序打开所有资源，失败即panic
func MustInitResources() {
	for _, p := range resourcePlugins {
		r := p.MustCreateResource()
		r.MustOpen()
		openedResources = append(openedResources, r)
		logger.Infof("resource opened name=%s", p.Name())
	}
}

// CloseResources 逆序关闭所有资源
func CloseResources() {
	for i := len(openedResources) - 1; i >= 0; i-- {
		openedResources[i].Close()
	}
	openedResources = nil
}

// MustInitComponents 创建并启动所有组件，失败即panic
func MustInitComponents(deps *Dependencies) {
	for _, p := range componentPlugins {
		c := p.MustCreateComponent(deps)
		if err := c.Start(); err != nil {
			panic("failed to start component " + p.Name() + ": " + err.Error())
		}
		startedComponents = append(startedComponents, c)
		logger.Infof("component started name=%s", p.Name())
	}
}

// StopComponents 逆序停止所有组件
func StopComponents() {
	for i := len(startedComponents) - 1; i >= 0; i-- {
		if err := startedComponents[i].Stop(); err != nil {
			logger.Warnf("component stop failed name=%s error=%s", startedComponents[i].GetName(), err.Error())
		}
	}
	startedComponents = nil
}
