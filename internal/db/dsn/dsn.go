// Package dsn builds data source names and opens the configured database.
package dsn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mineralhub/mineralhub/internal/config"
	gormlog "github.com/mineralhub/mineralhub/internal/logger/adapter/gorm"
)

const (
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"
	// EngineMySQL selects the mysql driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the postgres driver.
	EnginePostgres = "postgres"

	slowQueryThreshold = 200 * time.Millisecond
)

// ErrUnknownEngine is returned by Open for an unsupported DB.GormEngine.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Create builds the mysql Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// CreatePostgres builds the postgres key/value Data Source Name. Extras are appended
// verbatim, e.g. "sslmode=disable TimeZone=UTC".
func CreatePostgres(dbCfg *config.Config) string {
	parts := []string{
		"host=" + dbCfg.DB.Host,
		fmt.Sprintf("port=%d", dbCfg.DB.Port),
		"user=" + dbCfg.DB.User,
		"password=" + dbCfg.DB.Password,
		"dbname=" + dbCfg.DB.Name,
	}

	if extras := strings.TrimSpace(dbCfg.DB.Extras); extras != "" {
		parts = append(parts, extras)
	}

	return strings.Join(parts, " ")
}

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case "", EngineSQLite:
		return sqlite.Open(cfg.DB.Path), nil
	case EngineMySQL:
		return mysql.Open(Create(cfg)), nil
	case EnginePostgres:
		return postgres.Open(CreatePostgres(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the configured database with gorm logging routed through zerolog.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlog.New(level, slowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// a sqlite file allows a single writer
	if cfg.DB.GormEngine == "" || cfg.DB.GormEngine == EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}
