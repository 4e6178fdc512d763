package di

import (
	"context"
	"fmt"
	"time"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/commands/bus"
	commands_handlers "agentxrp-backend/application/commands/handlers"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/queries"
	querybus "agentxrp-backend/application/queries/bus"
	queries_handlers "agentxrp-backend/application/queries/handlers"
	"agentxrp-backend/application/services"
	domainconfig "agentxrp-backend/domain/config"
	"agentxrp-backend/infrastructure/config"
	"agentxrp-backend/infrastructure/messaging"
	"agentxrp-backend/infrastructure/messaging/eventbridge"
	"agentxrp-backend/infrastructure/persistence/gormdb"
	"agentxrp-backend/pkg/auth"
	"agentxrp-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	serviceName      = "agentxrp-backend"
	metricsNamespace = "agentxrp"
	limiterIdleTTL   = 10 * time.Minute
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() || cfg.IsLambda() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideDomainConfig selects the business rules for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return domainconfig.LoadDomainConfig(cfg.Environment)
}

// ProvideStore opens the database and brings the schema up to date
func ProvideStore(cfg *config.Config, logger *zap.Logger) (*gormdb.Store, func(), error) {
	store, err := gormdb.Open(gormdb.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
		EnableTracing:   tracingEnabled(cfg),
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideUnitOfWork exposes the store's transaction boundary
func ProvideUnitOfWork(store *gormdb.Store) ports.UnitOfWork {
	return store
}

// ProvideMetrics creates the Prometheus collector and registers pool stats
func ProvideMetrics(store *gormdb.Store) (*observability.Collector, error) {
	collector := observability.NewCollector(metricsNamespace)

	sqlDB, err := store.SQLDB()
	if err != nil {
		return nil, err
	}
	if err := collector.RegisterDB(sqlDB, store.Driver()); err != nil {
		return nil, fmt.Errorf("register db stats: %w", err)
	}
	return collector, nil
}

// ProvideLedgerMetrics binds the collector to the business metrics port
func ProvideLedgerMetrics(collector *observability.Collector) ports.LedgerMetrics {
	return collector
}

// ProvideTracerProvider installs the global tracer provider
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		SampleRate:  cfg.TracingSampleRate,
	})
}

// ProvideTracer returns the tracer used by the buses
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured
// and to the log otherwise.
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if !cfg.EventBusEnabled() {
		logger.Info("No event bus configured, domain events go to the log")
		return messaging.NewLogPublisher(logger), nil
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return eventbridge.NewPublisher(client, cfg.EventBusName, eventbridge.DefaultBreakerConfig(), logger), nil
}

// ProvideEventDispatcher creates the post-commit event dispatcher
func ProvideEventDispatcher(publisher ports.EventPublisher, metrics ports.LedgerMetrics, logger *zap.Logger) *services.EventDispatcher {
	return services.NewEventDispatcher(publisher, metrics, logger)
}

// ProvideKarmaService creates the karma recalculation service
func ProvideKarmaService(uow ports.UnitOfWork, dispatcher *services.EventDispatcher, logger *zap.Logger) *services.KarmaService {
	return services.NewKarmaService(uow, dispatcher, logger)
}

// ProvideRateLimiter creates the in-process token bucket limiter
func ProvideRateLimiter(cfg *config.Config) (*auth.TokenBucketLimiter, func()) {
	limiter := auth.NewTokenBucketLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, limiterIdleTTL)
	return limiter, limiter.Stop
}

// ProvideCommandBus creates and configures the command bus
func ProvideCommandBus(
	store *gormdb.Store,
	karma *services.KarmaService,
	dispatcher *services.EventDispatcher,
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.TracingMiddleware(tracer),
		bus.MetricsMiddleware(metrics),
	)

	registerAgent := commands_handlers.NewRegisterAgentHandler(store.Agents(), dispatcher, logger)
	createPost := commands_handlers.NewCreatePostHandler(store, domainCfg, dispatcher, logger)
	addComment := commands_handlers.NewAddCommentHandler(store, domainCfg, logger)
	castVote := commands_handlers.NewCastVoteHandler(store, karma, dispatcher, metrics, logger)
	recordTip := commands_handlers.NewRecordTipHandler(store, dispatcher, metrics, logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.RegisterAgentCommand{}, &CommandHandlerAdapter{
			handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
				c, ok := cmd.(commands.RegisterAgentCommand)
				if !ok {
					return nil, bus.ErrInvalidCommand
				}
				return registerAgent.Handle(ctx, c)
			},
		}},
		{commands.CreatePostCommand{}, &CommandHandlerAdapter{
			handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
				c, ok := cmd.(commands.CreatePostCommand)
				if !ok {
					return nil, bus.ErrInvalidCommand
				}
				return createPost.Handle(ctx, c)
			},
		}},
		{commands.AddCommentCommand{}, &CommandHandlerAdapter{
			handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
				c, ok := cmd.(commands.AddCommentCommand)
				if !ok {
					return nil, bus.ErrInvalidCommand
				}
				return addComment.Handle(ctx, c)
			},
		}},
		{commands.CastVoteCommand{}, &CommandHandlerAdapter{
			handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
				c, ok := cmd.(commands.CastVoteCommand)
				if !ok {
					return nil, bus.ErrInvalidCommand
				}
				return castVote.Handle(ctx, c)
			},
		}},
		{commands.RecordTipCommand{}, &CommandHandlerAdapter{
			handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
				c, ok := cmd.(commands.RecordTipCommand)
				if !ok {
					return nil, bus.ErrInvalidCommand
				}
				return recordTip.Handle(ctx, c)
			},
		}},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, fmt.Errorf("register %s: %w", bus.CommandName(r.cmd), err)
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates and configures the query bus
func ProvideQueryBus(
	store *gormdb.Store,
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.TracingMiddleware(tracer),
		querybus.MetricsMiddleware(metrics),
	)

	leaderboard := queries_handlers.NewLeaderboardHandler(store.Agents(), domainCfg, logger)
	stats := queries_handlers.NewStatsHandler(store, logger)
	listPosts := queries_handlers.NewListPostsHandler(store.Posts(), domainCfg, logger)
	getPost := queries_handlers.NewGetPostHandler(store.Posts(), store.Comments(), logger)
	profiles := queries_handlers.NewAgentProfileHandler(store.Agents(), store.Posts(), domainCfg, logger)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.LeaderboardQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.LeaderboardQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return leaderboard.Handle(ctx, query)
			},
		}},
		{queries.StatsQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.StatsQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return stats.Handle(ctx, query)
			},
		}},
		{queries.ListPostsQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.ListPostsQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return listPosts.Handle(ctx, query)
			},
		}},
		{queries.GetPostQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.GetPostQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return getPost.Handle(ctx, query)
			},
		}},
		{queries.AgentProfileQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.AgentProfileQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return profiles.HandleProfile(ctx, query)
			},
		}},
		{queries.GetMeQuery{}, &QueryHandlerAdapter{
			handler: func(ctx context.Context, q querybus.Query) (interface{}, error) {
				query, ok := q.(queries.GetMeQuery)
				if !ok {
					return nil, querybus.ErrInvalidQuery
				}
				return profiles.HandleMe(ctx, query)
			},
		}},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, fmt.Errorf("register %s: %w", querybus.QueryName(r.query), err)
		}
	}

	return queryBus, nil
}

// CommandHandlerAdapter adapts typed handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(ctx context.Context, cmd bus.Command) (interface{}, error)
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	return a.handler(ctx, cmd)
}

// QueryHandlerAdapter adapts typed query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(ctx context.Context, query querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

func tracingEnabled(cfg *config.Config) bool {
	return cfg.TracingExporter != "" && cfg.TracingExporter != observability.ExporterNone
}
