package config

import (
	"time"

	"github.com/mineralhub/mineralhub/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Settings  Settings
	Admin     Admin
}

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // sqlite, mysql or postgres
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // sqlite database file
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool          // disable recover middleware
	Port           int           // listening port for the webserver
	ShutDownTime   int           // wait time for shutdown
	URL            string        // base url for the webserver
	AppKey         string        // base64 key used to encrypt sensitive organization settings
	JWTSecret      string        // secret for signing bearer tokens
	TokenTTL       time.Duration // lifetime of issued bearer tokens
}

// Settings tunes the organization settings service.
type Settings struct {
	CacheTTL  time.Duration // 0 disables the read-through cache
	CacheSize int
}

// Admin is the account seeded on first start when no admin exists.
type Admin struct {
	Name     string
	Email    string
	Password string // empty generates a random password that is logged once
}
