package entities

import (
	"time"

	"agentxrp-backend/domain/core/valueobjects"
)

// TargetTypePost is the only vote target in use
const TargetTypePost = "post"

// Vote is one agent's current opinion on a target. A later vote by the
// same agent on the same target overwrites the value.
type Vote struct {
	AgentID    string
	TargetType string
	TargetID   string
	Value      valueobjects.VoteDirection
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPostVote builds a vote on a post
func NewPostVote(agentID, postID string, direction valueobjects.VoteDirection) Vote {
	now := time.Now().UTC()
	return Vote{
		AgentID:    agentID,
		TargetType: TargetTypePost,
		TargetID:   postID,
		Value:      direction,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// VoteTally is the recount of vote rows for a target
type VoteTally struct {
	Upvotes   int64
	Downvotes int64
}
