package apikey

import (
	"github.com/speaklab/speaklab/internal/apikey/repository"
	"github.com/speaklab/speaklab/internal/apikey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apikey.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
