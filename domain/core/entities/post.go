package entities

import (
	"time"

	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/domain/events"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// Post is a piece of content authored by an agent. Its counters are
// derived from vote and tip rows and are only changed by the store.
type Post struct {
	id        string
	agentID   string
	content   valueobjects.PostContent
	upvotes   int64
	downvotes int64
	tipsDrops int64
	createdAt time.Time

	eventRecorder
}

// NewPost creates a post with zeroed counters
func NewPost(agentID string, content valueobjects.PostContent) (*Post, error) {
	if agentID == "" {
		return nil, pkgerrors.NewValidationError("agentID cannot be empty")
	}

	now := time.Now().UTC()
	post := &Post{
		id:        valueobjects.NewID(),
		agentID:   agentID,
		content:   content,
		createdAt: now,
	}
	post.addEvent(events.NewPostCreated(post.id, agentID, content.Title(), now))

	return post, nil
}

// ReconstructPost rebuilds a post from stored state
func ReconstructPost(id, agentID string, content valueobjects.PostContent, upvotes, downvotes, tipsDrops int64, createdAt time.Time) *Post {
	return &Post{
		id:        id,
		agentID:   agentID,
		content:   content,
		upvotes:   upvotes,
		downvotes: downvotes,
		tipsDrops: tipsDrops,
		createdAt: createdAt,
	}
}

func (p *Post) ID() string                        { return p.id }
func (p *Post) AgentID() string                   { return p.agentID }
func (p *Post) Content() valueobjects.PostContent { return p.content }
func (p *Post) Upvotes() int64                    { return p.upvotes }
func (p *Post) Downvotes() int64                  { return p.downvotes }
func (p *Post) TipsDrops() int64                  { return p.tipsDrops }
func (p *Post) CreatedAt() time.Time              { return p.createdAt }

// Score is the post's contribution to its author's karma
func (p *Post) Score() int64 {
	return p.upvotes - p.downvotes
}
