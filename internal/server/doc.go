// Package server wires the theme service into an HTTP API.
//
// It assembles the service registry, theme provider, remote fetcher, and
// asset loader behind a gin router with CORS, rate limiting, and metrics
// middleware.
package server
