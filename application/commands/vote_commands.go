package commands

import (
	"agentxrp-backend/domain/core/valueobjects"
	pkgerrors "agentxrp-backend/pkg/errors"
	"agentxrp-backend/pkg/utils"
)

// CastVoteCommand records the voter's current opinion on a post
type CastVoteCommand struct {
	VoterID   string                     `json:"voter_id" validate:"required"`
	PostID    string                     `json:"post_id" validate:"required,max=64"`
	Direction valueobjects.VoteDirection `json:"direction"`
}

// Validate checks the command
func (c CastVoteCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if !c.Direction.IsValid() {
		return pkgerrors.NewValidationError("direction must be up or down")
	}
	return nil
}

// CastVoteResult carries the recounted totals for the post. KarmaStale is
// set when the vote committed but the author's karma could not be updated.
type CastVoteResult struct {
	Upvotes    int64
	Downvotes  int64
	KarmaStale bool
}
