package gormdb

import (
	"context"
	"time"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/domain/core/entities"
	pkgerrors "agentxrp-backend/pkg/errors"

	"gorm.io/gorm"
)

type agentRepository struct {
	db *gorm.DB
}

// Create inserts the agent. A taken name or address is a Conflict; a
// collision on the generated id or API key is retried with fresh ones.
func (r *agentRepository) Create(ctx context.Context, agent *entities.Agent) error {
	for attempt := 1; ; attempt++ {
		err := insertIsolated(ctx, r.db, agentToModel(agent))
		if !isUniqueViolation(err) {
			return translate("create agent", err)
		}

		var taken int64
		xerr := r.db.WithContext(ctx).Model(&agentModel{}).
			Where("name = ? OR xrp_address = ?", agent.Name(), agent.XRPAddress()).
			Count(&taken).Error
		if xerr != nil {
			return translate("check agent identity", xerr)
		}
		if taken > 0 {
			return pkgerrors.NewConflictError("name or address already registered").
				WithCode(pkgerrors.CodeDuplicateAgent)
		}
		if attempt == maxIDAttempts {
			return translate("create agent", err)
		}
		agent.ReissueCredentials()
	}
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*entities.Agent, error) {
	return r.first(ctx, "get agent", "id = ?", id)
}

func (r *agentRepository) GetByName(ctx context.Context, name string) (*entities.Agent, error) {
	return r.first(ctx, "get agent by name", "name = ?", name)
}

func (r *agentRepository) GetByAPIKey(ctx context.Context, apiKey string) (*entities.Agent, error) {
	return r.first(ctx, "get agent by api key", "api_key = ?", apiKey)
}

func (r *agentRepository) first(ctx context.Context, operation, query string, arg string) (*entities.Agent, error) {
	var m agentModel
	err := r.db.WithContext(ctx).Where(query, arg).Take(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.NewNotFoundError("agent").WithCode(pkgerrors.CodeAgentNotFound)
		}
		return nil, translate(operation, err)
	}
	return m.toEntity(), nil
}

func (r *agentRepository) SetKarma(ctx context.Context, agentID string, karma int64) error {
	err := r.db.WithContext(ctx).Model(&agentModel{}).
		Where("id = ?", agentID).
		Update("karma", karma).Error
	return translate("set karma", err)
}

func (r *agentRepository) Touch(ctx context.Context, agentID string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&agentModel{}).
		Where("id = ?", agentID).
		Update("last_active", at).Error
	return translate("touch agent", err)
}

func (r *agentRepository) TopByKarma(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	var rows []agentModel
	err := r.db.WithContext(ctx).
		Select("name", "xrp_address", "karma").
		Order("karma DESC").
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate("karma leaderboard", err)
	}

	entries := make([]ports.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ports.LeaderboardEntry{
			Name:       row.Name,
			XRPAddress: row.XRPAddress,
			Karma:      row.Karma,
		})
	}
	return entries, nil
}

type tipsLeaderboardRow struct {
	Name         string
	XRPAddress   string `gorm:"column:xrp_address"`
	Karma        int64
	TipsReceived int64 `gorm:"column:tips_received"`
}

func (r *agentRepository) TopByTips(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	var rows []tipsLeaderboardRow
	err := r.db.WithContext(ctx).
		Table("agents AS a").
		Select("a.name, a.xrp_address, a.karma, COALESCE(SUM(t.amount_drops), 0) AS tips_received").
		Joins("LEFT JOIN tips t ON t.to_agent = a.id").
		Group("a.id, a.name, a.xrp_address, a.karma").
		Order("tips_received DESC").
		Order("a.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate("tips leaderboard", err)
	}

	entries := make([]ports.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		received := row.TipsReceived
		entries = append(entries, ports.LeaderboardEntry{
			Name:         row.Name,
			XRPAddress:   row.XRPAddress,
			Karma:        row.Karma,
			TipsReceived: &received,
		})
	}
	return entries, nil
}

func (r *agentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&agentModel{}).Count(&n).Error
	return n, translate("count agents", err)
}
