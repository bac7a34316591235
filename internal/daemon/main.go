// Package daemon wires database, services and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mineralhub/mineralhub/internal/auth"
	"github.com/mineralhub/mineralhub/internal/config"
	"github.com/mineralhub/mineralhub/internal/crypt"
	"github.com/mineralhub/mineralhub/internal/db/controller/setting"
	"github.com/mineralhub/mineralhub/internal/db/dsn"
	"github.com/mineralhub/mineralhub/internal/db/models"
	"github.com/mineralhub/mineralhub/internal/orgsetting"
	"github.com/mineralhub/mineralhub/internal/web"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	settings    *orgsetting.Service
	webService  *web.Service
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Setting{},
		&models.Product{},
	)
}

// New opens and migrates the database and builds the services.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := dsn.Open(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return NewWithDB(cfg, db)
}

// NewWithDB builds the services on an already opened database.
func NewWithDB(cfg *config.Config, db *gorm.DB) (*Daemon, error) {
	if err := Migrate(db); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	enc, err := crypt.New(cfg.Webserver.AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init settings encryption")
	}

	settings, err := orgsetting.New(setting.NewRepository(db), enc, orgsetting.Options{
		CacheTTL:  cfg.Settings.CacheTTL,
		CacheSize: cfg.Settings.CacheSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init settings service")
	}

	return &Daemon{
		cfg:         cfg,
		db:          db,
		authService: auth.NewService(db, cfg.Webserver.JWTSecret, cfg.Webserver.TokenTTL),
		settings:    settings,
	}, nil
}

// Settings returns the organization settings service.
func (d *Daemon) Settings() *orgsetting.Service {
	return d.settings
}

// Seed creates roles, the initial admin and the default settings.
func (d *Daemon) Seed(ctx context.Context) error {
	if err := SeedRoles(ctx, d.db); err != nil {
		return err
	}

	if err := SeedAdmin(ctx, d.db, d.authService, d.cfg.Admin); err != nil {
		return err
	}

	_, err := SeedSettings(ctx, d.settings)

	return err
}

// Start seeds the database, then serves http until a termination signal arrives.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.Seed(ctx); err != nil {
		return err
	}

	webService, err := web.New(d.cfg, d.db, d.authService, d.settings)
	if err != nil {
		return errors.Wrap(err, "failed to init web service")
	}

	d.webService = webService

	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	return d.webService.Start(addr)
}
