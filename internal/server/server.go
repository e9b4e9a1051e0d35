package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/speaklab/speaklab/internal/api2d"
	"github.com/speaklab/speaklab/internal/apikey"
	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	"github.com/speaklab/speaklab/internal/auth"
	authdomain "github.com/speaklab/speaklab/internal/auth/domain"
	"github.com/speaklab/speaklab/internal/auth/session"
	"github.com/speaklab/speaklab/internal/clock"
	"github.com/speaklab/speaklab/internal/config"
	"github.com/speaklab/speaklab/internal/migration"
	"github.com/speaklab/speaklab/internal/notification"
	notificationdomain "github.com/speaklab/speaklab/internal/notification/domain"
	"github.com/speaklab/speaklab/internal/observability"
	obsmiddleware "github.com/speaklab/speaklab/internal/observability/logger"
	obsmetrics "github.com/speaklab/speaklab/internal/observability/metrics"
	"github.com/speaklab/speaklab/internal/page"
	pagedomain "github.com/speaklab/speaklab/internal/page/domain"
	"github.com/speaklab/speaklab/internal/policy"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"github.com/speaklab/speaklab/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	clock.Module,
	db.Module,
	migration.Module,
	fx.Provide(registerGin),
	auth.Module,
	session.Module,
	api2d.Module,
	policy.Module,
	apikey.Module,
	page.Module,
	notification.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine          *gin.Engine
	cfg             config.Config
	authsvc         authdomain.Service
	sessions        *session.Manager
	genID           *snowflake.Node
	apiKeySvc       apikeydomain.Service
	policySvc       policydomain.Service
	pageSvc         pagedomain.Service
	notificationSvc notificationdomain.Service
	features        *config.FeatureSettingsHolder
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	GenID           *snowflake.Node
	APIKeySvc       apikeydomain.Service
	PolicySvc       policydomain.Service
	PageSvc         pagedomain.Service
	NotificationSvc notificationdomain.Service
	Features        *config.FeatureSettingsHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		genID:           p.GenID,
		apiKeySvc:       p.APIKeySvc,
		policySvc:       p.PolicySvc,
		pageSvc:         p.PageSvc,
		notificationSvc: p.NotificationSvc,
		features:        p.Features,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Pages --------
	api.GET("/pages/home", s.GetHomePage)
	api.GET("/pages/:slug", s.GetPage)

	// -------- Notifications --------
	api.GET("/notifications", s.ListActiveNotifications)

	// -------- API key --------
	api.GET("/key", s.AuthRequired(), s.GetAPIKey)
	api.POST("/key", s.AuthRequired(), s.BindAPIKey)
	api.POST("/key/provision", s.AuthRequired(), s.ProvisionAPIKey)
	api.DELETE("/key", s.AuthRequired(), s.DeleteAPIKey)

	// -------- Feature pages --------
	api.GET("/features/speaking", s.AuthRequired(), s.SpeakingFeature)
	api.GET("/features/writing", s.AuthRequired(), s.WritingFeature)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired(), s.AdminRequired())

	admin.GET("/policies", s.ListPolicies)
	admin.POST("/policies", s.CreatePolicy)
	admin.PATCH("/policies/:id", s.UpdatePolicy)
	admin.DELETE("/policies/:id", s.DeletePolicy)

	admin.GET("/pages", s.ListPages)
	admin.POST("/pages", s.CreatePage)
	admin.PATCH("/pages/:id", s.UpdatePage)
	admin.DELETE("/pages/:id", s.DeletePage)

	admin.GET("/notifications", s.ListNotifications)
	admin.POST("/notifications", s.CreateNotification)
	admin.PATCH("/notifications/:id", s.UpdateNotification)
	admin.DELETE("/notifications/:id", s.DeleteNotification)
}
