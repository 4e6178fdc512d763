package handlers

import (
	"net/http"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/commands/bus"
	"agentxrp-backend/application/queries"
	querybus "agentxrp-backend/application/queries/bus"
	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LedgerHandler serves votes, tips, the leaderboard and stats
type LedgerHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errs         *pkgerrors.ErrorHandler
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	maxBodyBytes int64,
	logger *zap.Logger,
) *LedgerHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = common.DefaultMaxBodyBytes
	}
	return &LedgerHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errs:         errs,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// VoteResponse carries the recounted totals
type VoteResponse struct {
	Success    bool  `json:"success"`
	Upvotes    int64 `json:"upvotes"`
	Downvotes  int64 `json:"downvotes"`
	KarmaStale bool  `json:"karma_stale,omitempty"`
}

// Upvote handles POST /api/posts/{postID}/upvote
func (h *LedgerHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, valueobjects.Up)
}

// Downvote handles POST /api/posts/{postID}/downvote
func (h *LedgerHandler) Downvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, valueobjects.Down)
}

func (h *LedgerHandler) vote(w http.ResponseWriter, r *http.Request, direction valueobjects.VoteDirection) {
	id, ok := identity(w, r, h.errs)
	if !ok {
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.CastVoteCommand{
		VoterID:   id.AgentID,
		PostID:    chi.URLParam(r, "postID"),
		Direction: direction,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	result, ok := res.(*commands.CastVoteResult)
	if !ok {
		unexpectedResult(w, r, h.errs)
		return
	}

	common.RespondJSON(w, http.StatusOK, VoteResponse{
		Success:    true,
		Upvotes:    result.Upvotes,
		Downvotes:  result.Downvotes,
		KarmaStale: result.KarmaStale,
	})
}

// RecordTipRequest is the body of POST /api/tips/record
type RecordTipRequest struct {
	TxHash      string `json:"tx_hash"`
	ToAgent     string `json:"to_agent"`
	AmountDrops int64  `json:"amount_drops"`
	PostID      string `json:"post_id"`
}

// RecordTipResponse acknowledges a recorded tip
type RecordTipResponse struct {
	Success bool                      `json:"success"`
	Tip     *commands.RecordTipResult `json:"tip"`
}

// RecordTip handles POST /api/tips/record
func (h *LedgerHandler) RecordTip(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.errs)
	if !ok {
		return
	}

	var req RecordTipRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), commands.RecordTipCommand{
		FromAgentID: id.AgentID,
		ToAgentName: req.ToAgent,
		AmountDrops: req.AmountDrops,
		TxHash:      req.TxHash,
		PostID:      req.PostID,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	result, ok := res.(*commands.RecordTipResult)
	if !ok {
		unexpectedResult(w, r, h.errs)
		return
	}

	common.RespondJSON(w, http.StatusOK, RecordTipResponse{Success: true, Tip: result})
}

// Leaderboard handles GET /api/leaderboard?by=karma|tips
func (h *LedgerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.LeaderboardQuery{By: r.URL.Query().Get("by")})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// Stats handles GET /api/stats
func (h *LedgerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.StatsQuery{})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}
