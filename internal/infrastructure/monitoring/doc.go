// Package monitoring provides Prometheus metrics for the theme service.
//
// Each Metrics instance owns its own registry, so collectors never collide
// across instances. Exposition goes through Metrics.Handler, mounted at
// /metrics by the server.
package monitoring
