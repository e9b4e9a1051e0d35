package policy

import (
	"github.com/speaklab/speaklab/internal/policy/repository"
	"github.com/speaklab/speaklab/internal/policy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("policy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
