package handlers

import (
	"context"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/queries"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// LeaderboardHandler ranks agents. Results are never cached.
type LeaderboardHandler struct {
	agents ports.AgentRepository
	limit  int
	logger *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(agents ports.AgentRepository, cfg *config.DomainConfig, logger *zap.Logger) *LeaderboardHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &LeaderboardHandler{
		agents: agents,
		limit:  cfg.LeaderboardLimit,
		logger: logger,
	}
}

// Handle executes the leaderboard query
func (h *LeaderboardHandler) Handle(ctx context.Context, query queries.LeaderboardQuery) (*queries.LeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		entries []ports.LeaderboardEntry
		err     error
	)
	if query.Ranking() == queries.RankByTips {
		entries, err = h.agents.TopByTips(ctx, h.limit)
	} else {
		entries, err = h.agents.TopByKarma(ctx, h.limit)
	}
	if err != nil {
		return nil, err
	}

	return &queries.LeaderboardResult{Leaderboard: entries}, nil
}

// StatsHandler reports platform totals
type StatsHandler struct {
	repos  ports.Repositories
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(repos ports.Repositories, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		repos:  repos,
		logger: logger,
	}
}

// Handle executes the stats query
func (h *StatsHandler) Handle(ctx context.Context, _ queries.StatsQuery) (*queries.StatsResult, error) {
	agents, err := h.repos.Agents().Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := h.repos.Posts().Count(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := h.repos.Comments().Count(ctx)
	if err != nil {
		return nil, err
	}
	drops, err := h.repos.Tips().SumDrops(ctx)
	if err != nil {
		return nil, err
	}

	return &queries.StatsResult{
		Agents:   agents,
		Posts:    posts,
		Comments: comments,
		TipsXRP:  valueobjects.Drops(drops).WholeXRP(),
	}, nil
}
