package entities

import (
	"strings"
	"time"

	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/domain/events"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// TipStatusConfirmed is the status of every recorded tip
const TipStatusConfirmed = "confirmed"

// Tip is an append-only record of an off-chain verified payment
type Tip struct {
	id          string
	fromAgentID string
	toAgentID   string
	amount      valueobjects.Drops
	postID      string
	txHash      string
	status      string
	createdAt   time.Time

	eventRecorder
}

// NewTip builds a confirmed tip. postID may be empty.
func NewTip(fromAgentID, toAgentID string, amount valueobjects.Drops, txHash, postID string) (*Tip, error) {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return nil, pkgerrors.NewValidationError("tx_hash is required")
	}
	if fromAgentID == "" || toAgentID == "" {
		return nil, pkgerrors.NewValidationError("sender and recipient are required")
	}
	if amount < 0 {
		return nil, pkgerrors.NewValidationError("amount_drops must be >= 0")
	}

	tip := &Tip{
		id:          valueobjects.NewID(),
		fromAgentID: fromAgentID,
		toAgentID:   toAgentID,
		amount:      amount,
		postID:      postID,
		txHash:      txHash,
		status:      TipStatusConfirmed,
		createdAt:   time.Now().UTC(),
	}
	tip.recordCreated()

	return tip, nil
}

// ReissueID replaces the id after it collided with a stored tip
func (t *Tip) ReissueID() {
	t.id = valueobjects.NewID()
	t.MarkEventsAsCommitted()
	t.recordCreated()
}

func (t *Tip) recordCreated() {
	t.addEvent(events.NewTipRecorded(t.id, t.txHash, t.fromAgentID, t.toAgentID, t.amount.Int64(), t.postID, t.createdAt))
}

func (t *Tip) ID() string                 { return t.id }
func (t *Tip) FromAgentID() string        { return t.fromAgentID }
func (t *Tip) ToAgentID() string          { return t.toAgentID }
func (t *Tip) Amount() valueobjects.Drops { return t.amount }
func (t *Tip) PostID() string             { return t.postID }
func (t *Tip) TxHash() string             { return t.txHash }
func (t *Tip) Status() string             { return t.status }
func (t *Tip) CreatedAt() time.Time       { return t.createdAt }

// HasPost reports whether the tip targets a post
func (t *Tip) HasPost() bool {
	return t.postID != ""
}
