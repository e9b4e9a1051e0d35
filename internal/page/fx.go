package page

import (
	"github.com/speaklab/speaklab/internal/page/repository"
	"github.com/speaklab/speaklab/internal/page/service"
	"go.uber.org/fx"
)

var Module = fx.Module("page.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
