package gormdb

import (
	"context"
	"math"

	"agentxrp-backend/application/ports"
	"agentxrp-backend/domain/config"
	"agentxrp-backend/domain/core/entities"
	pkgerrors "agentxrp-backend/pkg/errors"

	"gorm.io/gorm"
)

// storedContentConfig accepts any row already in the table
var storedContentConfig = &config.DomainConfig{
	MinTitleLength:   0,
	MaxTitleLength:   math.MaxInt32,
	MaxContentLength: math.MaxInt32,
	MaxURLLength:     math.MaxInt32,
}

const postViewColumns = "p.id, p.agent_id, p.title, p.content, p.url, p.upvotes, p.downvotes, p.tips_drops, p.created_at, " +
	"a.name AS author_name, a.xrp_address AS author_address"

type postRepository struct {
	db *gorm.DB
}

func (r *postRepository) Create(ctx context.Context, post *entities.Post) error {
	err := r.db.WithContext(ctx).Create(postToModel(post)).Error
	return translate("create post", err)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	var m postModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, postNotFound()
		}
		return nil, translate("get post", err)
	}
	return m.toEntity()
}

func (r *postRepository) GetView(ctx context.Context, id string) (*ports.PostView, error) {
	var views []ports.PostView
	err := r.db.WithContext(ctx).
		Table("posts AS p").
		Select(postViewColumns).
		Joins("JOIN agents a ON a.id = p.agent_id").
		Where("p.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, translate("get post view", err)
	}
	if len(views) == 0 {
		return nil, postNotFound()
	}
	return &views[0], nil
}

func (r *postRepository) List(ctx context.Context, sort ports.PostSort, limit int) ([]ports.PostView, error) {
	q := r.db.WithContext(ctx).
		Table("posts AS p").
		Select(postViewColumns).
		Joins("JOIN agents a ON a.id = p.agent_id")

	switch sort {
	case ports.SortTop:
		q = q.Order("p.upvotes DESC")
	case ports.SortHot:
		q = q.Order("(p.upvotes - p.downvotes) DESC")
	}
	q = q.Order("p.created_at DESC").Order("p.id ASC")

	views := make([]ports.PostView, 0)
	if err := q.Limit(limit).Scan(&views).Error; err != nil {
		return nil, translate("list posts", err)
	}
	return views, nil
}

func (r *postRepository) ListByAgent(ctx context.Context, agentID string, limit int) ([]ports.PostSummary, error) {
	summaries := make([]ports.PostSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&postModel{}).
		Select("id, title, upvotes, tips_drops, created_at").
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, translate("list agent posts", err)
	}
	return summaries, nil
}

func (r *postRepository) SetVoteCounts(ctx context.Context, postID string, tally entities.VoteTally) error {
	err := r.db.WithContext(ctx).
		Model(&postModel{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"upvotes":   tally.Upvotes,
			"downvotes": tally.Downvotes,
		}).Error
	return translate("set vote counts", err)
}

func (r *postRepository) AddTipDrops(ctx context.Context, postID string, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&postModel{}).
		Where("id = ?", postID).
		UpdateColumn("tips_drops", gorm.Expr("tips_drops + ?", amount))
	if result.Error != nil {
		return translate("add tip drops", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero affected rows when the value did not change,
	// so a zero amount needs an explicit existence check.
	var n int64
	if err := r.db.WithContext(ctx).Model(&postModel{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return translate("add tip drops", err)
	}
	if n == 0 {
		return postNotFound()
	}
	return nil
}

func (r *postRepository) ScoreByAgent(ctx context.Context, agentID string) (int64, error) {
	var score int64
	err := r.db.WithContext(ctx).
		Model(&postModel{}).
		Select("COALESCE(SUM(upvotes - downvotes), 0)").
		Where("agent_id = ?", agentID).
		Scan(&score).Error
	return score, translate("sum post scores", err)
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&postModel{}).Count(&n).Error
	return n, translate("count posts", err)
}

func postNotFound() error {
	return pkgerrors.NewNotFoundError("post").WithCode(pkgerrors.CodePostNotFound)
}
