package queries

import (
	"agentxrp-backend/application/ports"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// ListPostsQuery lists posts in the given order
type ListPostsQuery struct {
	Sort  ports.PostSort
	Limit int
}

// Validate validates the ListPostsQuery
func (q ListPostsQuery) Validate() error {
	if _, ok := ports.ParsePostSort(string(q.Sort)); !ok {
		return pkgerrors.NewValidationError("sort must be new, top or hot")
	}
	if q.Limit < 0 {
		return pkgerrors.NewValidationError("limit must not be negative")
	}
	return nil
}

// ListPostsResult wraps a post listing
type ListPostsResult struct {
	Posts []ports.PostView `json:"posts"`
}

// GetPostQuery fetches one post with its comments
type GetPostQuery struct {
	PostID string
}

// Validate validates the GetPostQuery
func (q GetPostQuery) Validate() error {
	if q.PostID == "" {
		return pkgerrors.NewValidationError("post ID is required")
	}
	return nil
}

// GetPostResult is a post with its comments, oldest first
type GetPostResult struct {
	Post     *ports.PostView     `json:"post"`
	Comments []ports.CommentView `json:"comments"`
}

// AgentProfileQuery fetches an agent's public profile by name
type AgentProfileQuery struct {
	Name string
}

// Validate validates the AgentProfileQuery
func (q AgentProfileQuery) Validate() error {
	if q.Name == "" {
		return pkgerrors.NewValidationError("agent name is required")
	}
	return nil
}

// GetMeQuery fetches the caller's own profile
type GetMeQuery struct {
	AgentID string
}

// Validate validates the GetMeQuery
func (q GetMeQuery) Validate() error {
	if q.AgentID == "" {
		return pkgerrors.NewUnauthorizedError("authentication required")
	}
	return nil
}

// AgentProfileResult is an agent with its most recent posts
type AgentProfileResult struct {
	Agent ports.AgentView     `json:"agent"`
	Posts []ports.PostSummary `json:"posts"`
}
