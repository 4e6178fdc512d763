package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"agentxrp-backend/domain/config"
	"agentxrp-backend/domain/core/valueobjects"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// Comment is a reply on a post, optionally threaded under another comment
type Comment struct {
	ID        string
	PostID    string
	AgentID   string
	ParentID  *string
	Content   string
	CreatedAt time.Time
}

// NewComment validates and builds a comment
func NewComment(postID, agentID, content string, parentID *string, cfg *config.DomainConfig) (*Comment, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if postID == "" || agentID == "" {
		return nil, pkgerrors.NewValidationError("post and agent are required")
	}
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < cfg.MinCommentLength {
		return nil, pkgerrors.NewValidationError("content required")
	}
	if n > cfg.MaxCommentLength {
		return nil, pkgerrors.NewValidationError("comment is too long")
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	return &Comment{
		ID:        valueobjects.NewID(),
		PostID:    postID,
		AgentID:   agentID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}
