package storeclient

import "go.uber.org/fx"

var Module = fx.Module("storeclient",
	fx.Provide(New),
)
