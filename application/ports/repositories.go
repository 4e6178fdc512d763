package ports

import (
	"context"
	"time"

	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/events"
)

// AgentRepository defines the interface for agent persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type AgentRepository interface {
	// Create inserts a new agent. A taken name or address is a Conflict.
	Create(ctx context.Context, agent *entities.Agent) error

	// GetByID retrieves an agent by its ID
	GetByID(ctx context.Context, id string) (*entities.Agent, error)

	// GetByName retrieves an agent by its unique name
	GetByName(ctx context.Context, name string) (*entities.Agent, error)

	// GetByAPIKey resolves a bearer credential
	GetByAPIKey(ctx context.Context, apiKey string) (*entities.Agent, error)

	// SetKarma overwrites the stored karma
	SetKarma(ctx context.Context, agentID string, karma int64) error

	// Touch updates last_active
	Touch(ctx context.Context, agentID string, at time.Time) error

	// TopByKarma ranks agents by karma, ties broken by name
	TopByKarma(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// TopByTips ranks agents by total tips received, ties broken by name
	TopByTips(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	Count(ctx context.Context) (int64, error)
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id string) (*entities.Post, error)

	// GetView retrieves a post joined with its author
	GetView(ctx context.Context, id string) (*PostView, error)

	// List returns posts with author fields in the requested order
	List(ctx context.Context, sort PostSort, limit int) ([]PostView, error)

	// ListByAgent returns an agent's most recent posts
	ListByAgent(ctx context.Context, agentID string, limit int) ([]PostSummary, error)

	// SetVoteCounts overwrites the derived vote counters
	SetVoteCounts(ctx context.Context, postID string, tally entities.VoteTally) error

	// AddTipDrops increments tips_drops. A missing post is NotFound.
	AddTipDrops(ctx context.Context, postID string, amount int64) error

	// ScoreByAgent returns the sum of (upvotes - downvotes) over the agent's posts
	ScoreByAgent(ctx context.Context, agentID string) (int64, error)

	Count(ctx context.Context) (int64, error)
}

// VoteRepository defines the interface for vote persistence
type VoteRepository interface {
	// Upsert inserts the vote or overwrites the value of the existing one
	Upsert(ctx context.Context, vote entities.Vote) error

	// Tally counts +1 and -1 rows for a target
	Tally(ctx context.Context, targetType, targetID string) (entities.VoteTally, error)
}

// TipRepository defines the interface for tip persistence
type TipRepository interface {
	// Create inserts a tip. A reused tx_hash is a Conflict.
	Create(ctx context.Context, tip *entities.Tip) error

	// ExistsByTxHash reports whether a tip with the hash was recorded
	ExistsByTxHash(ctx context.Context, txHash string) (bool, error)

	// SumDrops totals amount_drops across all tips
	SumDrops(ctx context.Context) (int64, error)
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error

	// ListByPost returns a post's comments oldest first
	ListByPost(ctx context.Context, postID string) ([]CommentView, error)

	Count(ctx context.Context) (int64, error)
}

// Repositories groups the repositories that share one connection or transaction
type Repositories interface {
	Agents() AgentRepository
	Posts() PostRepository
	Votes() VoteRepository
	Tips() TipRepository
	Comments() CommentRepository
}

// UnitOfWork defines a transaction boundary. fn receives repositories bound
// to the transaction; returning an error rolls everything back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Repositories) error) error
}

// Store is the full persistence port used by the application
type Store interface {
	Repositories
	UnitOfWork

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
