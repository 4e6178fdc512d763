package handlers

import (
	"net/http"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/commands/bus"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/queries"
	querybus "agentxrp-backend/application/queries/bus"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler serves posts and comments
type PostHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errs         *pkgerrors.ErrorHandler
	cfg          *config.DomainConfig
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	cfg *config.DomainConfig,
	maxBodyBytes int64,
	logger *zap.Logger,
) *PostHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = common.DefaultMaxBodyBytes
	}
	return &PostHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errs:         errs,
		cfg:          cfg,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// CreatePostResponse acknowledges a new post
type CreatePostResponse struct {
	Success bool                       `json:"success"`
	Post    *commands.CreatePostResult `json:"post"`
}

// CreatePost handles POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.errs)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.CreatePostCommand{
		AgentID: id.AgentID,
		Title:   req.Title,
		Content: req.Content,
		URL:     req.URL,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	result, ok := res.(*commands.CreatePostResult)
	if !ok {
		unexpectedResult(w, r, h.errs)
		return
	}

	common.RespondJSON(w, http.StatusOK, CreatePostResponse{Success: true, Post: result})
}

// ListPosts handles GET /api/posts?sort=new|top|hot&limit=n
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractListParams(r, h.cfg.DefaultPostLimit, h.cfg.MaxPostLimit)

	res, err := h.queryBus.Ask(r.Context(), queries.ListPostsQuery{
		Sort:  ports.PostSort(params.Sort),
		Limit: params.Limit,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// GetPost handles GET /api/posts/{postID}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.GetPostQuery{PostID: chi.URLParam(r, "postID")})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// AddCommentRequest is the body of POST /api/posts/{postID}/comments
type AddCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// AddCommentResponse acknowledges a new comment
type AddCommentResponse struct {
	Success bool                       `json:"success"`
	Comment *commands.AddCommentResult `json:"comment"`
}

// AddComment handles POST /api/posts/{postID}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.errs)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.AddCommentCommand{
		AgentID:  id.AgentID,
		PostID:   chi.URLParam(r, "postID"),
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	result, ok := res.(*commands.AddCommentResult)
	if !ok {
		unexpectedResult(w, r, h.errs)
		return
	}

	common.RespondJSON(w, http.StatusOK, AddCommentResponse{Success: true, Comment: result})
}
