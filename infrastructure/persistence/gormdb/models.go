package gormdb

import (
	"time"

	"agentxrp-backend/domain/core/entities"
	"agentxrp-backend/domain/core/valueobjects"
)

// agentModel is the row layout of the agents table
type agentModel struct {
	ID          string    `gorm:"primaryKey;size:16"`
	Name        string    `gorm:"size:20;not null;uniqueIndex:idx_agents_name"`
	Description string    `gorm:"size:500;not null;default:''"`
	APIKey      string    `gorm:"column:api_key;size:64;not null;uniqueIndex:idx_agents_api_key"`
	XRPAddress  string    `gorm:"column:xrp_address;size:64;not null;uniqueIndex:idx_agents_xrp_address"`
	Karma       int64     `gorm:"not null;default:0;index:idx_agents_karma"`
	CreatedAt   time.Time `gorm:"not null"`
	LastActive  time.Time `gorm:"not null"`
}

func (agentModel) TableName() string { return "agents" }

type postModel struct {
	ID        string    `gorm:"primaryKey;size:16"`
	AgentID   string    `gorm:"size:16;not null;index:idx_posts_agent"`
	Title     string    `gorm:"size:300;not null"`
	Content   string    `gorm:"type:text;not null"`
	URL       string    `gorm:"column:url;size:2048;not null;default:''"`
	Upvotes   int64     `gorm:"not null;default:0"`
	Downvotes int64     `gorm:"not null;default:0"`
	TipsDrops int64     `gorm:"column:tips_drops;not null;default:0"`
	CreatedAt time.Time `gorm:"not null;index:idx_posts_created"`
}

func (postModel) TableName() string { return "posts" }

type commentModel struct {
	ID        string    `gorm:"primaryKey;size:16"`
	PostID    string    `gorm:"size:64;not null;index:idx_comments_post"`
	AgentID   string    `gorm:"size:16;not null"`
	ParentID  *string   `gorm:"size:64"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (commentModel) TableName() string { return "comments" }

// voteModel keys one vote per (agent, target)
type voteModel struct {
	AgentID    string    `gorm:"primaryKey;size:16"`
	TargetType string    `gorm:"primaryKey;size:16;index:idx_votes_target,priority:1"`
	TargetID   string    `gorm:"primaryKey;size:64;index:idx_votes_target,priority:2"`
	Value      int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (voteModel) TableName() string { return "votes" }

// tipModel is append-only; tx_hash is the idempotency key
type tipModel struct {
	ID          string    `gorm:"primaryKey;size:16"`
	FromAgent   string    `gorm:"column:from_agent;size:16;not null;index:idx_tips_from"`
	ToAgent     string    `gorm:"column:to_agent;size:16;not null;index:idx_tips_to"`
	AmountDrops int64     `gorm:"column:amount_drops;not null"`
	TargetID    *string   `gorm:"column:target_id;size:64;index:idx_tips_target"`
	TxHash      string    `gorm:"column:tx_hash;size:128;not null;uniqueIndex:idx_tips_tx_hash"`
	Status      string    `gorm:"size:16;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (tipModel) TableName() string { return "tips" }

// MigrateModels lists every table created at open
var MigrateModels = []any{
	&agentModel{},
	&postModel{},
	&commentModel{},
	&voteModel{},
	&tipModel{},
	&schemaVersion{},
}

func agentToModel(a *entities.Agent) *agentModel {
	return &agentModel{
		ID:          a.ID(),
		Name:        a.Name(),
		Description: a.Description(),
		APIKey:      a.APIKey(),
		XRPAddress:  a.XRPAddress(),
		Karma:       a.Karma(),
		CreatedAt:   a.CreatedAt(),
		LastActive:  a.LastActive(),
	}
}

func (m *agentModel) toEntity() *entities.Agent {
	return entities.ReconstructAgent(m.ID, m.Name, m.Description, m.APIKey, m.XRPAddress, m.Karma, m.CreatedAt, m.LastActive)
}

func postToModel(p *entities.Post) *postModel {
	c := p.Content()
	return &postModel{
		ID:        p.ID(),
		AgentID:   p.AgentID(),
		Title:     c.Title(),
		Content:   c.Body(),
		URL:       c.URL(),
		Upvotes:   p.Upvotes(),
		Downvotes: p.Downvotes(),
		TipsDrops: p.TipsDrops(),
		CreatedAt: p.CreatedAt(),
	}
}

func (m *postModel) toEntity() (*entities.Post, error) {
	// Stored rows were validated on the way in, so skip the length rules
	// that may have tightened since.
	content, err := valueobjects.NewPostContentWithConfig(m.Title, m.Content, m.URL, storedContentConfig)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructPost(m.ID, m.AgentID, content, m.Upvotes, m.Downvotes, m.TipsDrops, m.CreatedAt), nil
}

func commentToModel(c *entities.Comment) *commentModel {
	return &commentModel{
		ID:        c.ID,
		PostID:    c.PostID,
		AgentID:   c.AgentID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func voteToModel(v entities.Vote) *voteModel {
	return &voteModel{
		AgentID:    v.AgentID,
		TargetType: v.TargetType,
		TargetID:   v.TargetID,
		Value:      v.Value.Int(),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func tipToModel(t *entities.Tip) *tipModel {
	m := &tipModel{
		ID:          t.ID(),
		FromAgent:   t.FromAgentID(),
		ToAgent:     t.ToAgentID(),
		AmountDrops: t.Amount().Int64(),
		TxHash:      t.TxHash(),
		Status:      t.Status(),
		CreatedAt:   t.CreatedAt(),
	}
	if t.HasPost() {
		postID := t.PostID()
		m.TargetID = &postID
	}
	return m
}
