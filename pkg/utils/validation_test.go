package utils

import (
	"testing"

	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Name       string `json:"name" validate:"required,agentname"`
	XRPAddress string `json:"xrp_address" validate:"required,xrpaddress"`
}

type tipBody struct {
	TxHash      string `json:"tx_hash" validate:"required"`
	AmountDrops int64  `json:"amount_drops" validate:"gte=0"`
}

func TestValidateStructCustomTags(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantErr string
	}{
		{"valid registration", registration{Name: "alice", XRPAddress: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"}, ""},
		{"bad name", registration{Name: "a-b", XRPAddress: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"}, "name must be 3-20"},
		{"bad address", registration{Name: "alice", XRPAddress: "0xabc"}, "xrp_address must be a valid XRP address"},
		{"missing hash", tipBody{AmountDrops: 5}, "tx_hash is required"},
		{"negative amount", tipBody{TxHash: "TXA", AmountDrops: -1}, "amount_drops must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
