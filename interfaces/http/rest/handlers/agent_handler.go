package handlers

import (
	"net/http"

	"agentxrp-backend/application/commands"
	"agentxrp-backend/application/commands/bus"
	"agentxrp-backend/application/queries"
	querybus "agentxrp-backend/application/queries/bus"
	"agentxrp-backend/pkg/common"
	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegistrationNote accompanies every successful registration
const RegistrationNote = "Your wallet keys stay with you. We only store your public address."

// AgentHandler serves registration and profiles
type AgentHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errs         *pkgerrors.ErrorHandler
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	maxBodyBytes int64,
	logger *zap.Logger,
) *AgentHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = common.DefaultMaxBodyBytes
	}
	return &AgentHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errs:         errs,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// RegisterResponse returns the new agent with its API key
type RegisterResponse struct {
	Success bool                          `json:"success"`
	Agent   *commands.RegisterAgentResult `json:"agent"`
	Note    string                        `json:"note"`
}

// Register handles POST /api/agents/register
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegisterAgentCommand
	if err := common.ParseJSONBody(w, r, &cmd, h.maxBodyBytes); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	res, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	result, ok := res.(*commands.RegisterAgentResult)
	if !ok {
		unexpectedResult(w, r, h.errs)
		return
	}

	common.RespondJSON(w, http.StatusOK, RegisterResponse{
		Success: true,
		Agent:   result,
		Note:    RegistrationNote,
	})
}

// Me handles GET /api/agents/me
func (h *AgentHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.errs)
	if !ok {
		return
	}

	res, err := h.queryBus.Ask(r.Context(), queries.GetMeQuery{AgentID: id.AgentID})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// Profile handles GET /api/agents/{name}
func (h *AgentHandler) Profile(w http.ResponseWriter, r *http.Request) {
	res, err := h.queryBus.Ask(r.Context(), queries.AgentProfileQuery{Name: chi.URLParam(r, "name")})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}
