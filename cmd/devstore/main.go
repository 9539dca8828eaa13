package main

import (
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/devstore"
	"github.com/smallbiznis/quotedesk/internal/observability"
	"github.com/smallbiznis/quotedesk/internal/server"
	"github.com/smallbiznis/quotedesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		fx.Decorate(listenOnDevStoreAddr),
		observability.Module,
		fx.Provide(clock.NewSystemClock),
		db.Module,

		devstore.Module,
		server.EngineModule,
	)
	app.Run()
}

func listenOnDevStoreAddr(cfg config.Config) config.Config {
	cfg.HTTPAddr = cfg.DevStoreAddr
	return cfg
}
