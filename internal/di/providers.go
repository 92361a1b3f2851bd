package di

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"evently/internal/chat/handler"
	"evently/internal/chat/registry"
	"evently/internal/common"
	"evently/internal/config"
	"evently/internal/dbmysql"
)

// App holds everything main needs to serve the messaging API.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *zap.SugaredLogger
	Registry *registry.Registry
	HTTP     *handler.HTTPHandler
	WS       *handler.WSHandler
}

func provideLogger(cnf *config.Config) (*zap.SugaredLogger, func(), error) {
	log, err := common.NewLogger(cnf.Server.Environment)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

func provideChatConfig(cnf *config.Config) config.ChatConfig {
	return cnf.Chat
}

func provideDatabase(cnf *config.Config, log *zap.SugaredLogger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cnf)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("connected to database",
		"host", cnf.Database.Host,
		"database", cnf.Database.DatabaseName,
	)

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}
