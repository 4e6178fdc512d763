package handlers

import (
	"context"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/queries"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/domain/core/entities"

	"go.uber.org/zap"
)

// ListPostsHandler lists posts
type ListPostsHandler struct {
	posts  ports.PostRepository
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewListPostsHandler creates a new list posts handler
func NewListPostsHandler(posts ports.PostRepository, cfg *config.DomainConfig, logger *zap.Logger) *ListPostsHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ListPostsHandler{posts: posts, cfg: cfg, logger: logger}
}

// Handle executes the list posts query
func (h *ListPostsHandler) Handle(ctx context.Context, query queries.ListPostsQuery) (*queries.ListPostsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	sort, _ := ports.ParsePostSort(string(query.Sort))

	posts, err := h.posts.List(ctx, sort, h.cfg.ClampPostLimit(query.Limit))
	if err != nil {
		return nil, err
	}
	return &queries.ListPostsResult{Posts: posts}, nil
}

// GetPostHandler loads a post and its comments
type GetPostHandler struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	logger   *zap.Logger
}

// NewGetPostHandler creates a new get post handler
func NewGetPostHandler(posts ports.PostRepository, comments ports.CommentRepository, logger *zap.Logger) *GetPostHandler {
	return &GetPostHandler{posts: posts, comments: comments, logger: logger}
}

// Handle executes the get post query
func (h *GetPostHandler) Handle(ctx context.Context, query queries.GetPostQuery) (*queries.GetPostResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	post, err := h.posts.GetView(ctx, query.PostID)
	if err != nil {
		return nil, err
	}
	comments, err := h.comments.ListByPost(ctx, query.PostID)
	if err != nil {
		return nil, err
	}

	return &queries.GetPostResult{Post: post, Comments: comments}, nil
}

// AgentProfileHandler serves both public profiles and the caller's own
type AgentProfileHandler struct {
	agents ports.AgentRepository
	posts  ports.PostRepository
	limit  int
	logger *zap.Logger
}

// NewAgentProfileHandler creates a new agent profile handler
func NewAgentProfileHandler(agents ports.AgentRepository, posts ports.PostRepository, cfg *config.DomainConfig, logger *zap.Logger) *AgentProfileHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AgentProfileHandler{
		agents: agents,
		posts:  posts,
		limit:  cfg.ProfilePostLimit,
		logger: logger,
	}
}

// HandleProfile looks an agent up by name
func (h *AgentProfileHandler) HandleProfile(ctx context.Context, query queries.AgentProfileQuery) (*queries.AgentProfileResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	agent, err := h.agents.GetByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	return h.profile(ctx, agent)
}

// HandleMe returns the authenticated agent's own fields
func (h *AgentProfileHandler) HandleMe(ctx context.Context, query queries.GetMeQuery) (*ports.AgentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	agent, err := h.agents.GetByID(ctx, query.AgentID)
	if err != nil {
		return nil, err
	}
	view := ToAgentView(agent)
	return &view, nil
}

func (h *AgentProfileHandler) profile(ctx context.Context, agent *entities.Agent) (*queries.AgentProfileResult, error) {
	posts, err := h.posts.ListByAgent(ctx, agent.ID(), h.limit)
	if err != nil {
		return nil, err
	}
	return &queries.AgentProfileResult{
		Agent: ToAgentView(agent),
		Posts: posts,
	}, nil
}

// ToAgentView projects an agent onto its public fields
func ToAgentView(agent *entities.Agent) ports.AgentView {
	return ports.AgentView{
		ID:          agent.ID(),
		Name:        agent.Name(),
		Description: agent.Description(),
		XRPAddress:  agent.XRPAddress(),
		Karma:       agent.Karma(),
		CreatedAt:   agent.CreatedAt(),
	}
}
