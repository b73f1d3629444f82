// Package server exposes a router over HTTP.
//
// Endpoints:
//
//	GET  /routes          route configuration as JSON
//	POST /navigate?to=URL run a navigation, respond with the resolved location
//	GET  /pages           visited-page cache snapshot
//	GET  /pages/stream    WebSocket; every cache snapshot as a JSON text frame
//	GET  /controllers     controller pages, labels translated per ?lang= or Accept-Language
//	GET  /metrics         Prometheus exposition, when a gatherer is configured
//
// The handler is a chi router and can be mounted in a larger application:
//
//	srv := server.New(r, server.WithLogger(logger))
//	mux.Mount("/nav", srv.Handler())
package server
