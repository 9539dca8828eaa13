package main

import (
	"github.com/smallbiznis/quotedesk/internal/artifact"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/inventory/catalog"
	"github.com/smallbiznis/quotedesk/internal/observability"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/server"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"github.com/smallbiznis/quotedesk/internal/workspace"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(clock.NewSystemClock),

		// Functional Domains
		storeclient.Module,
		catalog.Module,
		render.Module,
		artifact.Module,
		workspace.Module,

		server.Module,
	)
	app.Run()
}
