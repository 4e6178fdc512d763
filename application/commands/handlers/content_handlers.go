package handlers

import (
	"context"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/services"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// RegisterAgentHandler signs up agents
type RegisterAgentHandler struct {
	agents     ports.AgentRepository
	dispatcher *services.EventDispatcher
	logger     *zap.Logger
}

// NewRegisterAgentHandler creates a new register agent handler
func NewRegisterAgentHandler(agents ports.AgentRepository, dispatcher *services.EventDispatcher, logger *zap.Logger) *RegisterAgentHandler {
	return &RegisterAgentHandler{
		agents:     agents,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle creates the agent. A taken name or address is a Conflict.
func (h *RegisterAgentHandler) Handle(ctx context.Context, cmd commands.RegisterAgentCommand) (*commands.RegisterAgentResult, error) {
	agent, err := entities.NewAgent(cmd.Name, cmd.Description, cmd.XRPAddress)
	if err != nil {
		return nil, err
	}
	if err := h.agents.Create(ctx, agent); err != nil {
		return nil, err
	}

	h.dispatcher.Dispatch(ctx, agent.GetUncommittedEvents()...)
	agent.MarkEventsAsCommitted()

	h.logger.Info("Agent registered",
		zap.String("agentID", agent.ID()),
		zap.String("name", agent.Name()),
	)

	return &commands.RegisterAgentResult{
		ID:         agent.ID(),
		Name:       agent.Name(),
		APIKey:     agent.APIKey(),
		XRPAddress: agent.XRPAddress(),
	}, nil
}

// CreatePostHandler publishes posts
type CreatePostHandler struct {
	uow        ports.UnitOfWork
	cfg        *config.DomainConfig
	dispatcher *services.EventDispatcher
	logger     *zap.Logger
}

// NewCreatePostHandler creates a new create post handler
func NewCreatePostHandler(uow ports.UnitOfWork, cfg *config.DomainConfig, dispatcher *services.EventDispatcher, logger *zap.Logger) *CreatePostHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CreatePostHandler{
		uow:        uow,
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle stores the post and bumps the author's last_active
func (h *CreatePostHandler) Handle(ctx context.Context, cmd commands.CreatePostCommand) (*commands.CreatePostResult, error) {
	content, err := valueobjects.NewPostContentWithConfig(cmd.Title, cmd.Content, cmd.URL, h.cfg)
	if err != nil {
		return nil, err
	}
	post, err := entities.NewPost(cmd.AgentID, content)
	if err != nil {
		return nil, err
	}

	err = h.uow.Execute(ctx, func(tx ports.Repositories) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		return tx.Agents().Touch(ctx, cmd.AgentID, post.CreatedAt())
	})
	if err != nil {
		return nil, err
	}

	h.dispatcher.Dispatch(ctx, post.GetUncommittedEvents()...)
	post.MarkEventsAsCommitted()

	h.logger.Info("Post created",
		zap.String("postID", post.ID()),
		zap.String("agentID", cmd.AgentID),
	)

	return &commands.CreatePostResult{
		ID:    post.ID(),
		Title: content.Title(),
	}, nil
}

// AddCommentHandler adds comments to existing posts
type AddCommentHandler struct {
	uow    ports.UnitOfWork
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewAddCommentHandler creates a new add comment handler
func NewAddCommentHandler(uow ports.UnitOfWork, cfg *config.DomainConfig, logger *zap.Logger) *AddCommentHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AddCommentHandler{
		uow:    uow,
		cfg:    cfg,
		logger: logger,
	}
}

// Handle stores the comment. An unknown post is NotFound.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd commands.AddCommentCommand) (*commands.AddCommentResult, error) {
	comment, err := entities.NewComment(cmd.PostID, cmd.AgentID, cmd.Content, cmd.ParentID, h.cfg)
	if err != nil {
		return nil, err
	}

	err = h.uow.Execute(ctx, func(tx ports.Repositories) error {
		if _, err := tx.Posts().GetByID(ctx, cmd.PostID); err != nil {
			return err
		}
		return tx.Comments().Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("Comment added",
		zap.String("commentID", comment.ID),
		zap.String("postID", cmd.PostID),
	)

	return &commands.AddCommentResult{ID: comment.ID}, nil
}
