package di

import (
	"context"
	"errors"
	"net/http"

	"agentxrp-backend/application/commands/bus"
	"agentxrp-backend/application/ports"
	querybus "agentxrp-backend/application/queries/bus"
	domainconfig "agentxrp-backend/domain/config"
	"agentxrp-backend/infrastructure/config"
	"agentxrp-backend/infrastructure/persistence/gormdb"
	"agentxrp-backend/interfaces/http/rest"
	"agentxrp-backend/pkg/auth"
	"agentxrp-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	Store        *gormdb.Store
	Publisher    ports.EventPublisher
	Metrics      *observability.Collector
	Tracing      *observability.TracerProvider
	RateLimiter  *auth.TokenBucketLimiter
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
}

// HTTPHandler builds the chi router over the container's buses
func (c *Container) HTTPHandler() http.Handler {
	var limiter *auth.IPRateLimiter
	if c.RateLimiter != nil && c.Config.RateLimitPerMinute > 0 {
		limiter = auth.NewIPRateLimiter(c.RateLimiter)
	}
	var metrics *observability.Collector
	if c.Config.EnableMetrics {
		metrics = c.Metrics
	}

	router := rest.NewRouter(
		c.CommandBus,
		c.QueryBus,
		c.Store.Agents(),
		c.Store,
		limiter,
		metrics,
		rest.Options{
			AllowedOrigins:     c.Config.CORSAllowedOrigins,
			RateLimitPerMinute: c.Config.RateLimitPerMinute,
			MaxBodyBytes:       c.Config.MaxBodyBytes,
			Debug:              c.Config.ExposeErrorDetails,
			Domain:             c.DomainConfig,
		},
		c.Logger,
	)
	return router.Setup()
}

// Close flushes spans and logs. The store and the limiter belong to the
// cleanup func returned by InitializeContainer.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if err := c.Tracing.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
