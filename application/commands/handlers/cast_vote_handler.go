package handlers

import (
	"context"
	"time"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/services"
	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/events"
	pkgerrors "agentxrp-backend/pkg/errors"

	"go.uber.org/zap"
)

// KarmaRecalculator recomputes an author's karma
type KarmaRecalculator interface {
	Recalculate(ctx context.Context, agentID string) (int64, error)
}

// CastVoteHandler records a vote and recounts the post's counters
type CastVoteHandler struct {
	uow        ports.UnitOfWork
	karma      KarmaRecalculator
	dispatcher *services.EventDispatcher
	metrics    ports.LedgerMetrics
	logger     *zap.Logger
}

// NewCastVoteHandler creates a new cast vote handler
func NewCastVoteHandler(
	uow ports.UnitOfWork,
	karma KarmaRecalculator,
	dispatcher *services.EventDispatcher,
	metrics ports.LedgerMetrics,
	logger *zap.Logger,
) *CastVoteHandler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CastVoteHandler{
		uow:        uow,
		karma:      karma,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle upserts the vote, recounts all votes on the post and writes the
// counters in one transaction, then refreshes the author's karma.
//
// A vote on a post that does not exist is still stored and the tally is
// returned, but no counters or karma change.
func (h *CastVoteHandler) Handle(ctx context.Context, cmd commands.CastVoteCommand) (*commands.CastVoteResult, error) {
	vote := entities.NewPostVote(cmd.VoterID, cmd.PostID, cmd.Direction)

	var (
		tally    entities.VoteTally
		authorID string
	)
	err := h.uow.Execute(ctx, func(tx ports.Repositories) error {
		if err := tx.Votes().Upsert(ctx, vote); err != nil {
			return err
		}

		t, err := tx.Votes().Tally(ctx, entities.TargetTypePost, cmd.PostID)
		if err != nil {
			return err
		}
		tally = t

		post, err := tx.Posts().GetByID(ctx, cmd.PostID)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return nil
			}
			return err
		}
		authorID = post.AgentID()

		return tx.Posts().SetVoteCounts(ctx, post.ID(), tally)
	})
	if err != nil {
		return nil, err
	}

	h.metrics.VoteCast(cmd.Direction.String())
	result := &commands.CastVoteResult{
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
	}

	if authorID != "" {
		if _, err := h.karma.Recalculate(ctx, authorID); err != nil {
			// The vote is committed; karma catches up on the next vote.
			result.KarmaStale = true
			h.metrics.KarmaRecalculationFailed()
			h.logger.Warn("Karma recalculation failed after vote",
				zap.String("postID", cmd.PostID),
				zap.String("authorID", authorID),
				zap.Error(err),
			)
		}
	}

	h.dispatcher.Dispatch(ctx, events.NewVoteCast(
		cmd.PostID,
		cmd.VoterID,
		cmd.Direction.Int(),
		tally.Upvotes,
		tally.Downvotes,
		time.Now().UTC(),
	))

	h.logger.Info("Vote recorded",
		zap.String("postID", cmd.PostID),
		zap.String("voterID", cmd.VoterID),
		zap.String("direction", cmd.Direction.String()),
		zap.Int64("upvotes", tally.Upvotes),
		zap.Int64("downvotes", tally.Downvotes),
		zap.Bool("postFound", authorID != ""),
	)

	return result, nil
}
