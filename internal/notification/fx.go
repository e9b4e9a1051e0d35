package notification

import (
	"github.com/speaklab/speaklab/internal/notification/repository"
	"github.com/speaklab/speaklab/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
