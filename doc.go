// Package main is the entry point of the MineralHub backend.
//
// MineralHub serves the marketplace API and gates platform features (registration,
// marketplace, forum, gallery, newsletter, insights, maintenance mode) behind
// organization settings that administrators manage at runtime.
//
//	mineralhub keygen          print a new Webserver.AppKey
//	mineralhub settings seed   create roles, the initial admin and default settings
//	mineralhub start           serve http
package main
