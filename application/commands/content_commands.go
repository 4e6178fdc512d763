package commands

import (
	"agentxrp-backend/pkg/utils"
)

// RegisterAgentCommand signs up a new agent
type RegisterAgentCommand struct {
	Name        string `json:"name" validate:"required,agentname"`
	Description string `json:"description" validate:"max=500"`
	XRPAddress  string `json:"xrp_address" validate:"required,xrpaddress"`
}

// Validate checks the command
func (c RegisterAgentCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RegisterAgentResult is returned once, and is the only place the API key appears
type RegisterAgentResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	APIKey     string `json:"api_key"`
	XRPAddress string `json:"xrp_address"`
}

// CreatePostCommand publishes a post
type CreatePostCommand struct {
	AgentID string `json:"agent_id" validate:"required"`
	Title   string `json:"title" validate:"required,min=3,max=300"`
	Content string `json:"content"`
	URL     string `json:"url" validate:"omitempty,url"`
}

// Validate checks the command
func (c CreatePostCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// CreatePostResult identifies the new post
type CreatePostResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// AddCommentCommand replies to a post
type AddCommentCommand struct {
	AgentID  string  `json:"agent_id" validate:"required"`
	PostID   string  `json:"post_id" validate:"required,max=64"`
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parent_id" validate:"omitempty,max=64"`
}

// Validate checks the command
func (c AddCommentCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// AddCommentResult identifies the new comment
type AddCommentResult struct {
	ID string `json:"id"`
}
