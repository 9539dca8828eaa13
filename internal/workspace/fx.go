package workspace

import (
	"context"
	"time"

	"github.com/smallbiznis/quotedesk/internal/artifact"
	"github.com/smallbiznis/quotedesk/internal/clock"
	"github.com/smallbiznis/quotedesk/internal/inventory/catalog"
	"github.com/smallbiznis/quotedesk/internal/observability/metrics"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionIdleTimeout = 2 * time.Hour
	sweepInterval      = 10 * time.Minute
)

type Params struct {
	fx.In

	Store    *storeclient.Client
	Catalog  *catalog.Catalog
	Renderer *render.Service
	Sink     artifact.Sink `optional:"true"`
	Clock    clock.Clock
	Log      *zap.Logger
	Metrics  *metrics.Metrics `optional:"true"`
}

type Result struct {
	fx.Out

	Documents *Documents
	Registry  *Registry
}

func provide(p Params) Result {
	company := NewCompanyResolver(p.Store, p.Renderer.Company, p.Log)
	docs := NewDocuments(p.Store, p.Renderer, company, p.Sink, p.Clock, p.Log)
	return Result{
		Documents: docs,
		Registry:  NewRegistry(p.Store, docs, p.Catalog, p.Clock, p.Log, p.Metrics),
	}
}

func sweepIdle(lc fx.Lifecycle, reg *Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						reg.Sweep(sessionIdleTimeout)
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

var Module = fx.Module("workspace",
	fx.Provide(provide),
	fx.Invoke(sweepIdle),
)
