package handlers

import (
	"context"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/ports"
	"agentxrp-backend/application/services"
	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/core/valueobjects"
	pkgerrors "agentxrp-backend/pkg/errors"

	"go.uber.org/zap"
)

// RecordTipHandler records tips. The tx_hash unique index makes repeated
// submissions of one payment fail with Conflict before any side effect.
type RecordTipHandler struct {
	uow        ports.UnitOfWork
	dispatcher *services.EventDispatcher
	metrics    ports.LedgerMetrics
	logger     *zap.Logger
}

// NewRecordTipHandler creates a new record tip handler
func NewRecordTipHandler(
	uow ports.UnitOfWork,
	dispatcher *services.EventDispatcher,
	metrics ports.LedgerMetrics,
	logger *zap.Logger,
) *RecordTipHandler {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RecordTipHandler{
		uow:        uow,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle resolves the recipient, inserts the tip and credits the post in
// one transaction. A missing recipient or post rolls everything back.
func (h *RecordTipHandler) Handle(ctx context.Context, cmd commands.RecordTipCommand) (*commands.RecordTipResult, error) {
	amount, err := valueobjects.NewDrops(cmd.AmountDrops)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	var tip *entities.Tip
	err = h.uow.Execute(ctx, func(tx ports.Repositories) error {
		recipient, err := tx.Agents().GetByName(ctx, cmd.ToAgentName)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return pkgerrors.NewNotFoundError("recipient").WithCode(pkgerrors.CodeRecipientNotFound)
			}
			return err
		}

		recorded, err := tx.Tips().ExistsByTxHash(ctx, cmd.TxHash)
		if err != nil {
			return err
		}
		if recorded {
			return pkgerrors.NewConflictError("transaction already recorded").
				WithCode(pkgerrors.CodeDuplicateTransaction).
				WithDetails(map[string]interface{}{"tx_hash": cmd.TxHash})
		}

		t, err := entities.NewTip(cmd.FromAgentID, recipient.ID(), amount, cmd.TxHash, cmd.PostID)
		if err != nil {
			return err
		}
		if err := tx.Tips().Create(ctx, t); err != nil {
			return err
		}
		if t.HasPost() {
			if err := tx.Posts().AddTipDrops(ctx, t.PostID(), amount.Int64()); err != nil {
				return err
			}
		}

		tip = t
		return nil
	})
	if err != nil {
		if pkgerrors.IsConflict(err) {
			h.metrics.DuplicateTipRejected()
			h.logger.Info("Duplicate tip rejected", zap.String("txHash", cmd.TxHash))
		}
		return nil, err
	}

	h.metrics.TipRecorded(amount.Int64())
	h.dispatcher.Dispatch(ctx, tip.GetUncommittedEvents()...)
	tip.MarkEventsAsCommitted()

	h.logger.Info("Tip recorded",
		zap.String("tipID", tip.ID()),
		zap.String("txHash", tip.TxHash()),
		zap.String("from", tip.FromAgentID()),
		zap.String("to", tip.ToAgentID()),
		zap.Int64("amountDrops", amount.Int64()),
		zap.String("postID", tip.PostID()),
	)

	return &commands.RecordTipResult{
		TipID:  tip.ID(),
		TxHash: tip.TxHash(),
	}, nil
}
