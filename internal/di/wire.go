//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"evently/internal/chat/fanout"
	"evently/internal/chat/handler"
	"evently/internal/chat/registry"
	"evently/internal/chat/repository"
	"evently/internal/chat/service"
	"evently/internal/config"
)

// InitializeChatService builds the messaging service graph. The returned
// cleanup closes the database pool and flushes the logger.
func InitializeChatService() (*App, func(), error) {
	wire.Build(
		config.LoadConfig,
		provideLogger,
		provideChatConfig,
		provideDatabase,
		repository.NewMessageRepository,
		registry.NewRegistry,
		fanout.NewDeliverer,
		service.NewChatService,
		handler.NewHTTPHandler,
		handler.NewWSHandler,
		wire.Struct(new(App), "*"),
	)
	return &App{}, nil, nil
}
