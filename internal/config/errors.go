package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrEmptyAppKey error if config webserver.appkey is empty.
	ErrEmptyAppKey = errors.New("config webserver.appkey can not be empty")

	// ErrEmptyJWTSecret error if config webserver.jwtsecret is empty.
	ErrEmptyJWTSecret = errors.New("config webserver.jwtsecret can not be empty")

	// ErrUnknownGormEngine error if config db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("config db.gormengine must be one of sqlite, mysql, postgres")
)
