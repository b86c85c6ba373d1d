package resource

import (
	"fmt"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vod-service/ddd/infrastructure/database/po"
	"vod-service/pkg/assert"
	"vod-service/pkg/config"
	"vod-service/pkg/logger"
	"vod-service/pkg/manager"
)

var (
	mysqlResourceOnce      sync.Once
	singletonMySqlResource *MySqlResource
)

// MySqlResource MySQL资源管理器
type MySqlResource struct {
	db *gorm.DB
}

// DefaultMySqlResource 获取MySQL资源单例
func DefaultMySqlResource() *MySqlResource {
	assert.NotCircular()
	mysqlResourceOnce.Do(func() {
		singletonMySqlResource = &MySqlResource{}
	})
	assert.NotNil(singletonMySqlResource)
	return singletonMySqlResource
}

// MustOpen 初始化数据库连接并迁移表结构
func (r *MySqlResource) MustOpen() {
	if r.db != nil {
		return
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MySqlResource")
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql db: %v", err))
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&po.VideoPO{}, &po.TranscodeJobPO{}); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}

	r.db = db

	logger.Info("MySQL resource initialized", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Database,
	})
}

// GetDB 获取gorm实例
func (r *MySqlResource) GetDB() *gorm.DB {
	return r.db
}

// Close 释放数据库连接
func (r *MySqlResource) Close() {
	if r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// MySqlResourcePlugin MySQL资源插件
type MySqlResourcePlugin struct{}

func (p *MySqlResourcePlugin) Name() string {
	return "mysqlResource"
}

func (p *MySqlResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultMySqlResource()
}
