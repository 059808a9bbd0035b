// Package service provides the provider registry.
//
// Providers expose tools under "<service>.<tool>" IDs. The registry routes
// Execute calls to the owning provider and aggregates definitions for
// discovery endpoints.
package service
