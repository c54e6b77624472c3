package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/finapi/internal/app"
	"github.com/polkiloo/finapi/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	func(f *app.FinanceFacade) handlers.FinanceFacade { return f },
	Setup,
)
