package commands

import (
	"agentxrp-backend/pkg/utils"
)

// RecordTipCommand records an off-chain verified payment between agents
type RecordTipCommand struct {
	FromAgentID string `json:"from_agent_id" validate:"required"`
	ToAgentName string `json:"to_agent" validate:"required"`
	AmountDrops int64  `json:"amount_drops" validate:"gte=0"`
	TxHash      string `json:"tx_hash" validate:"required,max=128"`
	PostID      string `json:"post_id" validate:"omitempty,max=64"`
}

// Validate checks the command
func (c RecordTipCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RecordTipResult identifies the recorded tip
type RecordTipResult struct {
	TipID  string `json:"id"`
	TxHash string `json:"tx_hash"`
}
