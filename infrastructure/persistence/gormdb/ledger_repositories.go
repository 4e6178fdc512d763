package gormdb

import (
	"context"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/domain/core/entities"
	pkgerrors "agentxrp-backend/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type voteRepository struct {
	db *gorm.DB
}

// Upsert relies on the (agent_id, target_type, target_id) primary key
func (r *voteRepository) Upsert(ctx context.Context, vote entities.Vote) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "agent_id"},
				{Name: "target_type"},
				{Name: "target_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(voteToModel(vote)).Error
	return translate("upsert vote", err)
}

type tallyRow struct {
	Up   int64
	Down int64
}

func (r *voteRepository) Tally(ctx context.Context, targetType, targetID string) (entities.VoteTally, error) {
	var row tallyRow
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("COALESCE(SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END), 0) AS up, "+
			"COALESCE(SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END), 0) AS down").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Scan(&row).Error
	if err != nil {
		return entities.VoteTally{}, translate("tally votes", err)
	}
	return entities.VoteTally{Upvotes: row.Up, Downvotes: row.Down}, nil
}

type tipRepository struct {
	db *gorm.DB
}

// Create inserts the tip. Only a stored tip with the same tx_hash is a
// Conflict; a collision on the random id is retried with a fresh one.
func (r *tipRepository) Create(ctx context.Context, tip *entities.Tip) error {
	for attempt := 1; ; attempt++ {
		err := insertIsolated(ctx, r.db, tipToModel(tip))
		if !isUniqueViolation(err) {
			return translate("insert tip", err)
		}

		exists, xerr := r.ExistsByTxHash(ctx, tip.TxHash())
		if xerr != nil {
			return xerr
		}
		if exists {
			return pkgerrors.NewConflictError("transaction already recorded").
				WithCode(pkgerrors.CodeDuplicateTransaction).
				WithDetails(map[string]interface{}{"tx_hash": tip.TxHash()})
		}
		if attempt == maxIDAttempts {
			return translate("insert tip", err)
		}
		tip.ReissueID()
	}
}

func (r *tipRepository) ExistsByTxHash(ctx context.Context, txHash string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&tipModel{}).Where("tx_hash = ?", txHash).Count(&n).Error
	if err != nil {
		return false, translate("find tip", err)
	}
	return n > 0, nil
}

func (r *tipRepository) SumDrops(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&tipModel{}).
		Select("COALESCE(SUM(amount_drops), 0)").
		Scan(&total).Error
	return total, translate("sum tips", err)
}

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	err := r.db.WithContext(ctx).Create(commentToModel(comment)).Error
	return translate("create comment", err)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]ports.CommentView, error) {
	views := make([]ports.CommentView, 0)
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.post_id, c.agent_id, c.parent_id, c.content, c.created_at, a.name AS author_name").
		Joins("JOIN agents a ON a.id = c.agent_id").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, translate("list comments", err)
	}
	return views, nil
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&commentModel{}).Count(&n).Error
	return n, translate("count comments", err)
}
