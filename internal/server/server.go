package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/inventory/catalog"
	"github.com/smallbiznis/quotedesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/quotedesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quotedesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/quotedesk/internal/observability/tracing"
	"github.com/smallbiznis/quotedesk/internal/workspace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EngineModule serves a bare gin engine with health, metrics and the
// shared middleware stack. Other modules register their routes on it.
var EngineModule = fx.Module("http.engine",
	fx.Provide(registerGin),
	fx.Invoke(run),
)

var Module = fx.Module("http.server",
	EngineModule,
	fx.Invoke(NewServer),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, gatherer prometheus.Gatherer) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, reg *prometheus.Registry) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, reg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	registry  *workspace.Registry
	documents *workspace.Documents
	catalog   *catalog.Catalog
	log       *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Registry  *workspace.Registry
	Documents *workspace.Documents
	Catalog   *catalog.Catalog
	Log       *zap.Logger
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		registry:  p.Registry,
		documents: p.Documents,
		catalog:   p.Catalog,
		log:       p.Log.Named("http"),
	}

	svc.registerWorkspaceRoutes()
	svc.registerDocumentRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerWorkspaceRoutes() {
	s.engine.POST("/api/workspace", s.OpenSession)

	ws := s.engine.Group("/api/workspace/:session", s.withSession())

	ws.GET("/quotations", s.ListQuotations)
	ws.POST("/pages/:target", s.NavigatePage)
	ws.GET("/pagination", s.GetPagination)
	ws.POST("/quotations/:id/edit", s.EditQuotation)
	ws.DELETE("/quotations/:id", s.DeleteQuotation)
	ws.GET("/quotations/:id/print", s.PrintSessionQuotation)

	ws.GET("/draft", s.GetDraft)
	ws.POST("/draft", s.ResetDraft)
	ws.PATCH("/draft/customer", s.UpdateCustomerField)
	ws.POST("/draft/items", s.AddDraftItem)
	ws.PATCH("/draft/items/:index", s.UpdateItemField)
	ws.DELETE("/draft/items/:index", s.RemoveDraftItem)
	ws.POST("/draft/items/:index/suggestion", s.SelectSuggestion)
	ws.POST("/draft/save", s.SaveDraft)

	ws.GET("/suggestions", s.Suggestions)
	ws.GET("/banner", s.GetBanner)
	ws.DELETE("/banner", s.DismissBanner)
}

func (s *Server) registerDocumentRoutes() {
	docs := s.engine.Group("/api/quotations/:id")

	docs.GET("/print", s.PrintQuotation)
	docs.GET("/download", s.DownloadQuotation)
	docs.GET("/share", s.ShareQuotation)

	s.engine.GET("/api/inventory", s.ListInventory)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
