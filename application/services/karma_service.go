package services

import (
	"context"
	"time"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/domain/events"

	"go.uber.org/zap"
)

// KarmaService recomputes an agent's karma from the vote counters of its posts
type KarmaService struct {
	uow        ports.UnitOfWork
	dispatcher *EventDispatcher
	logger     *zap.Logger
}

// NewKarmaService creates a new karma service
func NewKarmaService(uow ports.UnitOfWork, dispatcher *EventDispatcher, logger *zap.Logger) *KarmaService {
	return &KarmaService{
		uow:        uow,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Recalculate overwrites agents.karma with the sum of (upvotes - downvotes)
// over the agent's posts and returns the new value. An agent without posts
// ends at zero.
func (s *KarmaService) Recalculate(ctx context.Context, agentID string) (int64, error) {
	var karma int64
	err := s.uow.Execute(ctx, func(tx ports.Repositories) error {
		score, err := tx.Posts().ScoreByAgent(ctx, agentID)
		if err != nil {
			return err
		}
		if err := tx.Agents().SetKarma(ctx, agentID, score); err != nil {
			return err
		}
		karma = score
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Karma recalculated",
		zap.String("agentID", agentID),
		zap.Int64("karma", karma),
	)
	s.dispatcher.Dispatch(ctx, events.NewKarmaRecalculated(agentID, karma, time.Now().UTC()))

	return karma, nil
}
