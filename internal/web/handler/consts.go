package handler

import "errors"

const (
	// APIPrefix is the prefix of every versioned API route.
	APIPrefix = "/api/v1"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"
)

// ErrNilDeps is returned by Init if app or a mandatory dependency is nil.
var ErrNilDeps = errors.New("app, cfg, db or settings service is nil")
