package auth

import (
	"github.com/speaklab/speaklab/internal/auth/repository"
	"github.com/speaklab/speaklab/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
