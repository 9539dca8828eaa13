package devstore

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("devstore",
	fx.Provide(NewSnowflake),
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(migrateOnStart),
	fx.Invoke(func(h *Handler, r *gin.Engine) { h.Register(r) }),
)

func NewSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func migrateOnStart(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.Migrate(ctx)
		},
	})
}
