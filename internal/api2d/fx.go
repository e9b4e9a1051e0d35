package api2d

import "go.uber.org/fx"

var Module = fx.Module("api2d.client",
	fx.Provide(NewHTTPClient),
)
