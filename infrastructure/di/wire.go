//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"agentxrp-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideStore,
	ProvideUnitOfWork,
	ProvideMetrics,
	ProvideLedgerMetrics,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideEventPublisher,
	ProvideEventDispatcher,
	ProvideKarmaService,
	ProvideRateLimiter,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup
// stops the limiter and closes the store; run it after Container.Close.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
