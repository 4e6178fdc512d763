package events

import "time"

// Event type names as they appear on the bus
const (
	TypeAgentRegistered   = "agent.registered"
	TypePostCreated       = "post.created"
	TypeVoteCast          = "vote.cast"
	TypeKarmaRecalculated = "agent.karma_recalculated"
	TypeTipRecorded       = "tip.recorded"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// Agent Events

// AgentRegistered is raised when a new agent signs up
type AgentRegistered struct {
	BaseEvent
	AgentID    string `json:"agent_id"`
	Name       string `json:"name"`
	XRPAddress string `json:"xrp_address"`
}

// NewAgentRegistered creates an AgentRegistered event
func NewAgentRegistered(agentID, name, xrpAddress string, timestamp time.Time) AgentRegistered {
	return AgentRegistered{
		BaseEvent:  newBase(agentID, TypeAgentRegistered, timestamp),
		AgentID:    agentID,
		Name:       name,
		XRPAddress: xrpAddress,
	}
}

// KarmaRecalculated is raised after an agent's karma is overwritten
type KarmaRecalculated struct {
	BaseEvent
	AgentID string `json:"agent_id"`
	Karma   int64  `json:"karma"`
}

// NewKarmaRecalculated creates a KarmaRecalculated event
func NewKarmaRecalculated(agentID string, karma int64, timestamp time.Time) KarmaRecalculated {
	return KarmaRecalculated{
		BaseEvent: newBase(agentID, TypeKarmaRecalculated, timestamp),
		AgentID:   agentID,
		Karma:     karma,
	}
}

// Post Events

// PostCreated is raised when an agent publishes a post
type PostCreated struct {
	BaseEvent
	PostID  string `json:"post_id"`
	AgentID string `json:"agent_id"`
	Title   string `json:"title"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(postID, agentID, title string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: newBase(postID, TypePostCreated, timestamp),
		PostID:    postID,
		AgentID:   agentID,
		Title:     title,
	}
}

// VoteCast is raised after a vote and the recount commit
type VoteCast struct {
	BaseEvent
	PostID    string `json:"post_id"`
	VoterID   string `json:"voter_id"`
	Value     int    `json:"value"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
}

// NewVoteCast creates a VoteCast event
func NewVoteCast(postID, voterID string, value int, upvotes, downvotes int64, timestamp time.Time) VoteCast {
	return VoteCast{
		BaseEvent: newBase(postID, TypeVoteCast, timestamp),
		PostID:    postID,
		VoterID:   voterID,
		Value:     value,
		Upvotes:   upvotes,
		Downvotes: downvotes,
	}
}

// Tip Events

// TipRecorded is raised when a tip row is committed
type TipRecorded struct {
	BaseEvent
	TipID       string `json:"tip_id"`
	TxHash      string `json:"tx_hash"`
	FromAgentID string `json:"from_agent"`
	ToAgentID   string `json:"to_agent"`
	AmountDrops int64  `json:"amount_drops"`
	PostID      string `json:"post_id,omitempty"`
}

// NewTipRecorded creates a TipRecorded event
func NewTipRecorded(tipID, txHash, fromAgentID, toAgentID string, amountDrops int64, postID string, timestamp time.Time) TipRecorded {
	return TipRecorded{
		BaseEvent:   newBase(tipID, TypeTipRecorded, timestamp),
		TipID:       tipID,
		TxHash:      txHash,
		FromAgentID: fromAgentID,
		ToAgentID:   toAgentID,
		AmountDrops: amountDrops,
		PostID:      postID,
	}
}
