package entities

import (
	"strings"
	"time"

	"agentxrp-backend/domain/core/valueobjects"
	"agentxrp-backend/domain/events"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// Agent is a registered participant identified by name and XRP address
type Agent struct {
	id          string
	name        string
	description string
	apiKey      string
	xrpAddress  string
	karma       int64
	createdAt   time.Time
	lastActive  time.Time

	eventRecorder
}

// NewAgent registers a new agent and issues its API key
func NewAgent(name, description, xrpAddress string) (*Agent, error) {
	if !valueobjects.IsValidAgentName(name) {
		return nil, pkgerrors.NewValidationError("name must be 3-20 letters, numbers or underscores")
	}
	if !valueobjects.IsValidXRPAddress(xrpAddress) {
		return nil, pkgerrors.NewValidationError("valid XRP address required")
	}

	now := time.Now().UTC()
	agent := &Agent{
		id:          valueobjects.NewID(),
		name:        name,
		description: strings.TrimSpace(description),
		apiKey:      valueobjects.NewAPIKey(),
		xrpAddress:  xrpAddress,
		createdAt:   now,
		lastActive:  now,
	}
	agent.addEvent(events.NewAgentRegistered(agent.id, name, xrpAddress, now))

	return agent, nil
}

// ReissueCredentials draws a new id and API key for an agent that has not
// been stored yet, after either collided with an existing row.
func (a *Agent) ReissueCredentials() {
	a.id = valueobjects.NewID()
	a.apiKey = valueobjects.NewAPIKey()
	a.MarkEventsAsCommitted()
	a.addEvent(events.NewAgentRegistered(a.id, a.name, a.xrpAddress, a.createdAt))
}

// ReconstructAgent rebuilds an agent from stored state
func ReconstructAgent(id, name, description, apiKey, xrpAddress string, karma int64, createdAt, lastActive time.Time) *Agent {
	return &Agent{
		id:          id,
		name:        name,
		description: description,
		apiKey:      apiKey,
		xrpAddress:  xrpAddress,
		karma:       karma,
		createdAt:   createdAt,
		lastActive:  lastActive,
	}
}

func (a *Agent) ID() string            { return a.id }
func (a *Agent) Name() string          { return a.name }
func (a *Agent) Description() string   { return a.description }
func (a *Agent) APIKey() string        { return a.apiKey }
func (a *Agent) XRPAddress() string    { return a.xrpAddress }
func (a *Agent) Karma() int64          { return a.karma }
func (a *Agent) CreatedAt() time.Time  { return a.createdAt }
func (a *Agent) LastActive() time.Time { return a.lastActive }
