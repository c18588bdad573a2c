// Package di provides dependency injection configuration for cardctl.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cardmakerapp/cardmaker-go/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Session persistence
	do.Provide(injector, providers.ProvideSessionStore)

	// API client
	do.Provide(injector, providers.ProvideClient)

	return injector
}
