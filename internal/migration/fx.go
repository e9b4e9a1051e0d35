package migration

import (
	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	authdomain "github.com/speaklab/speaklab/internal/auth/domain"
	"github.com/speaklab/speaklab/internal/config"
	notificationdomain "github.com/speaklab/speaklab/internal/notification/domain"
	pagedomain "github.com/speaklab/speaklab/internal/page/domain"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"github.com/speaklab/speaklab/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs skip versioned migrations.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&policydomain.ExpirationPolicy{},
				&apikeydomain.KeyRecord{},
				&pagedomain.Page{},
				&notificationdomain.Notification{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultPolicy {
			if err := seed.EnsureDefaultPolicy(conn); err != nil {
				return err
			}
		}
		if err := seed.EnsureAdminUsers(conn, cfg.AdminEmails); err != nil {
			return err
		}
		return seed.EnsureHomePage(conn)
	}),
)
