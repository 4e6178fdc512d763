package rest

import (
	"context"
	"net/http"
	"time"

	"agentxrp-backend/application/commands/bus"
	querybus "agentxrp-backend/application/queries/bus"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/interfaces/http/rest/handlers"
	"agentxrp-backend/interfaces/http/rest/middleware"
	"agentxrp-backend/pkg/auth"
	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"
	"agentxrp-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the router
type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	MaxBodyBytes       int64
	// Debug exposes internal error text in 5xx responses
	Debug              bool
	Domain             *config.DomainConfig
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	agents     middleware.APIKeyResolver
	store      Pinger
	limiter    *auth.IPRateLimiter
	metrics    *observability.Collector
	opts       Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. limiter and metrics may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	agents middleware.APIKeyResolver,
	store Pinger,
	limiter *auth.IPRateLimiter,
	metrics *observability.Collector,
	opts Options,
	logger *zap.Logger,
) *Router {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = common.DefaultMaxBodyBytes
	}
	if opts.Domain == nil {
		opts.Domain = config.DefaultDomainConfig()
	}
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		agents:     agents,
		store:      store,
		limiter:    limiter,
		metrics:    metrics,
		opts:       opts,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	errs := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errs.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errs.Handle(w, r, pkgerrors.NewNotFoundError("route"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errs.Handle(w, r, pkgerrors.NewNotFoundError("route"))
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	var protected []func(http.Handler) http.Handler
	if rt.limiter != nil {
		protected = append(protected, middleware.RateLimit(rt.limiter, rt.opts.RateLimitPerMinute, errs))
	}
	protected = append(protected, middleware.Authenticate(rt.agents, errs, rt.logger))

	agentHandler := handlers.NewAgentHandler(rt.commandBus, rt.queryBus, errs, rt.opts.MaxBodyBytes, rt.logger)
	postHandler := handlers.NewPostHandler(rt.commandBus, rt.queryBus, errs, rt.opts.Domain, rt.opts.MaxBodyBytes, rt.logger)
	ledgerHandler := handlers.NewLedgerHandler(rt.commandBus, rt.queryBus, errs, rt.opts.MaxBodyBytes, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Route("/agents", func(r chi.Router) {
			r.Post("/register", agentHandler.Register)
			r.With(protected...).Get("/me", agentHandler.Me)
			r.Get("/{name}", agentHandler.Profile)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.Get("/{postID}", postHandler.GetPost)

			r.Group(func(r chi.Router) {
				r.Use(protected...)
				r.Post("/", postHandler.CreatePost)
				r.Post("/{postID}/upvote", ledgerHandler.Upvote)
				r.Post("/{postID}/downvote", ledgerHandler.Downvote)
				r.Post("/{postID}/comments", postHandler.AddComment)
			})
		})

		r.With(protected...).Post("/tips/record", ledgerHandler.RecordTip)
		r.Get("/leaderboard", ledgerHandler.Leaderboard)
		r.Get("/stats", ledgerHandler.Stats)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once the store answers a ping
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := rt.store.Ping(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
