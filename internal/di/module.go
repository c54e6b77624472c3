package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/finapi/internal/app"
	"github.com/polkiloo/finapi/internal/cache"
	"github.com/polkiloo/finapi/internal/config"
	"github.com/polkiloo/finapi/internal/logger"
	"github.com/polkiloo/finapi/internal/pkg/auth"
	"github.com/polkiloo/finapi/internal/server/http/router"
	"github.com/polkiloo/finapi/internal/storage"
	"github.com/polkiloo/finapi/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		cache.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
